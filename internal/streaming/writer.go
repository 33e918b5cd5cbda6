package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"gallery-viewer/internal/logging"
)

// Sentinel errors for Copy.
var (
	// ErrWriteTimeout indicates that the client did not accept a chunk in time.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the request ended before the body was sent.
	ErrClientGone = errors.New("client disconnected")
)

// Config bounds a transfer.
type Config struct {
	// WriteTimeout is the deadline for each chunk.
	WriteTimeout time.Duration
	// MaxDuration bounds the whole transfer (0 = unlimited).
	MaxDuration time.Duration
	// ChunkSize is the unit deadlines and flushes apply to.
	ChunkSize int
}

// DefaultConfig returns the settings used for image responses.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 30 * time.Second,
		MaxDuration:  0,
		ChunkSize:    64 * 1024,
	}
}

// Copy writes r to w chunk by chunk and returns the number of bytes written.
// Headers must already be set; the status line is sent with the first chunk
// if the caller has not written it.
func Copy(ctx context.Context, w http.ResponseWriter, r io.Reader, cfg Config) (int64, error) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}

	rc := http.NewResponseController(w)
	deadlines := cfg.WriteTimeout > 0
	start := time.Now()
	buf := make([]byte, cfg.ChunkSize)

	var written int64
	for {
		if ctx.Err() != nil {
			return written, ErrClientGone
		}
		if cfg.MaxDuration > 0 && time.Since(start) > cfg.MaxDuration {
			return written, ErrWriteTimeout
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			if deadlines {
				if err := rc.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout)); err != nil {
					// Not every writer supports deadlines; carry on without
					deadlines = false
				}
			}

			m, err := w.Write(buf[:n])
			written += int64(m)
			if err != nil {
				return written, classify(ctx, err)
			}
			if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
				return written, classify(ctx, err)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, readErr
		}
	}

	if deadlines {
		// Clear the deadline so the connection can be reused
		_ = rc.SetWriteDeadline(time.Time{})
	}

	logging.Debug("Transfer completed: %d bytes in %v", written, time.Since(start))
	return written, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return ErrClientGone
	case errors.Is(err, os.ErrDeadlineExceeded):
		return ErrWriteTimeout
	default:
		return err
	}
}
