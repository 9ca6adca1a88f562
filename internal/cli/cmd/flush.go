package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newFlushCmd creates "history prune"
func newFlushCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:     "prune",
		Aliases: []string{"flush"},
		Short:   "Delete all but the newest recorded sessions",
		Long: `Delete old recordings to free up space.
The newest --keep sessions are kept; the default is the record.keep_sessions
setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("keep") {
				keep = GetConfig().Record.KeepSessions
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(keep)
			if err != nil {
				return err
			}

			GetZapLogger().Info("History pruned", zap.Int("removed", removed), zap.Int("kept", keep))
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sessions\n", removed)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "number of sessions to keep")
	return cmd
}
