package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/neowatch/internal/diff"
	"github.com/berrythewa/neowatch/internal/storage"
	"github.com/berrythewa/neowatch/pkg/format"
	"github.com/berrythewa/neowatch/pkg/utils"
)

// newHistoryCmd creates the history command with all subcommands
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded watch sessions",
		Long: `Browse sessions recorded with --record:
  • List recorded sessions
  • Replay the frames of a session
  • Delete a session
  • Prune old sessions`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newFlushCmd())

	return cmd
}

func openStore() (*storage.BoltStorage, error) {
	store, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath:   dbPath(),
		Compress: GetConfig().Record.Compress,
		Logger:   GetZapLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.ListSessions()
			if err != nil {
				return err
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[:limit]
			}

			return printSessions(cmd.OutOrStdout(), sessions, time.Now())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of sessions to show (0 for all)")
	return cmd
}

func printSessions(out io.Writer, sessions []*storage.SessionInfo, now time.Time) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(out, "No recorded sessions")
		return err
	}
	for _, s := range sessions {
		_, err := fmt.Fprintf(out, "%s  %-16s %4d frames %9s  %s\n",
			utils.ShortID(s.ID),
			format.FormatRelativeTime(s.Started, now),
			s.Frames,
			format.FormatSize(s.Bytes),
			format.TruncateText(s.CommandLine, 60))
		if err != nil {
			return err
		}
	}
	return nil
}

func newHistoryShowCmd() *cobra.Command {
	var (
		differences bool
		numberDiff  bool
		noColors    bool
	)

	cmd := &cobra.Command{
		Use:   "show <session-id-prefix>",
		Short: "Replay the frames of a recorded session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := store.FindSession(args[0])
			if err != nil {
				return err
			}
			frames, err := store.Frames(info.ID)
			if err != nil {
				return err
			}

			palette, err := GetConfig().Palette()
			if err != nil {
				return err
			}
			opts := format.Options{
				ShowDiff: differences,
				Diff:     diff.Options{NumberDiff: numberDiff, Radix: GetConfig().Radix},
				Palette:  palette,
			}

			GetZapLogger().Debug("Replaying session",
				zap.String("session", info.ID),
				zap.Int("frames", len(frames)))

			return replay(cmd.OutOrStdout(), info, frames, format.NewRenderer(opts), !noColors)
		},
	}

	cmd.Flags().BoolVarP(&differences, "differences", "d", false, "highlight changes between consecutive frames")
	cmd.Flags().BoolVarP(&numberDiff, "number-diff", "N", false, "color numeric increases and decreases")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "plain separators")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id-prefix>",
		Short: "Delete a recorded session and its frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := store.FindSession(args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteSession(info.ID); err != nil {
				return fmt.Errorf("failed to delete session %s: %w", info.ID, err)
			}

			GetZapLogger().Info("Session deleted", zap.String("session", info.ID))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", utils.ShortID(info.ID))
			return err
		},
	}
}
