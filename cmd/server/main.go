package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/metalcycle/lcastudio/internal/app"
	"github.com/metalcycle/lcastudio/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays clean for JSON-RPC.
	logWriter := io.Writer(os.Stderr)
	if logPath := os.Getenv("LCA_LOG_PATH"); logPath != "" {
		fileWriter, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := app.NewLogger(cfg, logWriter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.ServeStdio(ctx); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// logFileWriter appends to a log file and trims it to its newest
// keepSize bytes once it grows past maxSize.
type logFileWriter struct {
	path     string
	file     *os.File
	maxSize  int64
	keepSize int64
	mu       sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	w := &logFileWriter{path: path, file: file, maxSize: maxLogSizeBytes, keepSize: keepLogSizeBytes}
	if err := w.truncateIfNeeded(); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.maxSize {
		return nil
	}

	buf := make([]byte, w.keepSize)
	n, err := w.file.ReadAt(buf, size-w.keepSize)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
