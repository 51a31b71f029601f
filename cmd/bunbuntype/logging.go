package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// setupLogger installs the default slog logger. The returned func closes the
// log file, if any.
func setupLogger(debug bool, path string) (func(), error) {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() {
			_ = f.Close()
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, opts)))
	return closeFn, nil
}
