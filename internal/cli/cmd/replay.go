package cmd

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/berrythewa/neowatch/internal/storage"
	"github.com/berrythewa/neowatch/internal/types"
	"github.com/berrythewa/neowatch/pkg/format"
)

// replay writes every frame of a session, each diffed against the one before.
// It stops at the first write error.
func replay(out io.Writer, info *storage.SessionInfo, frames []*types.Frame, r *format.Renderer, useColors bool) error {
	if _, err := fmt.Fprintf(out, "%s\nSession %s, %d frames\n",
		format.BoldIf(info.CommandLine, useColors), info.ID, len(frames)); err != nil {
		return err
	}

	var (
		buf      bytes.Buffer
		previous string
	)
	for i, f := range frames {
		buf.Reset()
		fmt.Fprintf(&buf, "%s\n#%d  %s  exit %d  %s\n",
			format.CreateSeparator(useColors),
			i+1, f.Started.Format("2006-01-02 15:04:05"), f.ExitCode, f.Duration.Round(time.Millisecond))

		r.Frame(&buf, f.Text, previous)
		if buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
		if _, err := out.Write(buf.Bytes()); err != nil {
			return err
		}

		previous = f.Text
	}
	return nil
}
