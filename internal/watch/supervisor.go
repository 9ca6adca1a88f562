// Package watch runs the target command repeatedly and redraws its output.
package watch

import (
	"bytes"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/berrythewa/neowatch/internal/terminal"
	"github.com/berrythewa/neowatch/internal/types"
	"github.com/berrythewa/neowatch/pkg/format"
	"github.com/berrythewa/neowatch/pkg/utils"
)

// Runner spawns the target once and returns its captured output
type Runner interface {
	Run(ctx context.Context, name string, args []string) (*types.Frame, error)
}

// Recorder receives every frame that was drawn
type Recorder interface {
	Record(frame *types.Frame) error
}

// Option customizes a Supervisor
type Option func(*Supervisor)

// WithRecorder stores each drawn frame in r
func WithRecorder(r Recorder) Option {
	return func(s *Supervisor) { s.recorder = r }
}

// WithWidth sets the width source used to lay out the header
func WithWidth(width func() int) Option {
	return func(s *Supervisor) { s.width = width }
}

// WithClock replaces time.Now and the interval sleep
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Supervisor) {
		s.now = now
		s.sleep = sleep
	}
}

// WithHost sets the host name shown in the header
func WithHost(host string) Option {
	return func(s *Supervisor) { s.host = host }
}

// Supervisor is the run, render, sleep loop
type Supervisor struct {
	opts     Options
	runner   Runner
	out      io.Writer
	renderer *format.Renderer
	recorder Recorder
	logger   *zap.Logger

	width func() int
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	host  string

	cmdline string
	buf     bytes.Buffer
}

// NewSupervisor creates a loop that draws frames on out
func NewSupervisor(opts Options, runner Runner, out io.Writer, logger *zap.Logger, options ...Option) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Supervisor{
		opts:     opts,
		runner:   runner,
		out:      out,
		renderer: format.NewRenderer(opts.RenderOptions()),
		logger:   logger,
		width:    func() int { return terminal.DefaultWidth },
		now:      time.Now,
		sleep:    sleepContext,
		host:     utils.GetHostname(),
		cmdline:  utils.CommandLine(opts.Command, opts.Args),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Run loops until the context is cancelled, an exit condition fires or an
// error occurs. Cancellation is a clean stop and returns nil.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := s.opts.Validate(); err != nil {
		return err
	}

	s.logger.Info("Starting watch",
		zap.String("command", s.cmdline),
		zap.Duration("interval", s.opts.Interval),
		zap.Bool("differences", s.opts.ShowDiff))

	var lastData string
	havePrevious := false

	for n := 1; ; n++ {
		if ctx.Err() != nil {
			s.logger.Info("Watch cancelled", zap.Int("frames", n-1))
			return nil
		}

		start := s.now()
		frame, err := s.runner.Run(ctx, s.opts.Command, s.opts.Args)
		if ctx.Err() != nil {
			s.logger.Info("Watch cancelled", zap.Int("frames", n-1))
			return nil
		}
		if err != nil {
			s.logger.Error("Failed to run command", zap.Error(err))
			return err
		}

		if err := s.draw(frame, lastData); err != nil {
			s.logger.Error("Failed to draw frame", zap.Error(err))
			return err
		}

		if s.recorder != nil {
			if err := s.recorder.Record(frame); err != nil {
				s.logger.Warn("Failed to record frame", zap.Error(err))
			}
		}

		changed := havePrevious && frame.Text != lastData
		s.logger.Debug("Frame drawn",
			zap.Int("frame", n),
			zap.Int("exit_code", frame.ExitCode),
			zap.Duration("duration", frame.Duration),
			zap.Bool("changed", changed))

		if s.opts.ExitOnChange && changed {
			s.logger.Info("Output changed, exiting", zap.Int("frame", n))
			return nil
		}
		if s.opts.ExitOnError && frame.Failed() {
			s.logger.Info("Command failed, exiting", zap.Int("exit_code", frame.ExitCode))
			return types.NewErrExit(frame.ExitCode)
		}
		if s.opts.Count > 0 && n >= s.opts.Count {
			return nil
		}

		wait := SleepDuration(s.opts.Interval, s.now().Sub(start), s.opts.Precise)
		if err := s.sleep(ctx, wait); err != nil {
			s.logger.Info("Watch cancelled", zap.Int("frames", n))
			return nil
		}

		lastData = frame.Text
		havePrevious = true
	}
}

// draw builds the whole frame in memory and writes it at once
func (s *Supervisor) draw(frame *types.Frame, previous string) error {
	s.buf.Reset()
	s.buf.WriteString(terminal.ClearScreen)
	if s.opts.Header {
		s.buf.WriteString(format.Header(format.HeaderInfo{
			Interval: s.opts.Interval,
			Command:  s.cmdline,
			Host:     s.host,
			Now:      s.now(),
		}, s.width()))
	}
	s.renderer.Frame(&s.buf, frame.Text, previous)

	if _, err := s.out.Write(s.buf.Bytes()); err != nil {
		return types.NewIo(err)
	}
	return nil
}

// SleepDuration is the pause after an iteration. In precise mode the time
// already spent is subtracted so iterations start interval apart.
func SleepDuration(interval, elapsed time.Duration, precise bool) time.Duration {
	if !precise {
		return interval
	}
	if elapsed >= interval {
		return 0
	}
	return interval - elapsed
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
