package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/asmfmt/internal/format"
	"github.com/msto63/asmfmt/internal/watch"
	asmlog "github.com/msto63/asmfmt/pkg/core/log"
)

// runWatch reformats paths on every change until interrupted. Failures are
// reported per file and do not stop the loop.
func (o *options) runWatch(cmd *cobra.Command, f *format.Formatter, paths []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(paths, watch.Options{
		Debounce: o.cfg.Watch.Debounce.Duration,
		Logger:   o.logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	o.logger.Info("Watching for changes", asmlog.Fields{
		"files":    strings.Join(w.Files(), ","),
		"debounce": o.cfg.Watch.Debounce.String(),
	})

	err = w.Run(ctx, func(_ context.Context, path string) {
		o.processFile(cmd, f, path)
	})
	if errors.Is(err, context.Canceled) {
		o.logger.Info("Watch stopped")
		return nil
	}
	return err
}
