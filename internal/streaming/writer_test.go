package streaming

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want 30s", cfg.WriteTimeout)
	}
	if cfg.MaxDuration != 0 {
		t.Errorf("MaxDuration = %v, want 0 (unlimited)", cfg.MaxDuration)
	}
	if cfg.ChunkSize != 64*1024 {
		t.Errorf("ChunkSize = %d, want 65536", cfg.ChunkSize)
	}
}

func TestCopy(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789"), 20000)

	tests := []struct {
		name      string
		chunkSize int
	}{
		{"default chunks", 0},
		{"small chunks", 1000},
		{"single chunk", len(payload) * 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			cfg := DefaultConfig()
			cfg.ChunkSize = tt.chunkSize

			n, err := Copy(context.Background(), w, bytes.NewReader(payload), cfg)
			if err != nil {
				t.Fatalf("Copy() error = %v", err)
			}
			if n != int64(len(payload)) {
				t.Errorf("Copy() = %d bytes, want %d", n, len(payload))
			}
			if !bytes.Equal(w.Body.Bytes(), payload) {
				t.Error("body differs from payload")
			}
			if !w.Flushed {
				t.Error("response was never flushed")
			}
		})
	}
}

func TestCopyEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	n, err := Copy(context.Background(), w, strings.NewReader(""), DefaultConfig())
	if err != nil || n != 0 {
		t.Errorf("Copy() = %d, %v, want 0, nil", n, err)
	}
}

func TestCopyCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := httptest.NewRecorder()
	_, err := Copy(ctx, w, strings.NewReader("data"), DefaultConfig())
	if !errors.Is(err, ErrClientGone) {
		t.Errorf("Copy() error = %v, want ErrClientGone", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestCopyReadError(t *testing.T) {
	w := httptest.NewRecorder()
	_, err := Copy(context.Background(), w, failingReader{}, DefaultConfig())
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Copy() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

type failingWriter struct {
	*httptest.ResponseRecorder
	err error
}

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestCopyClassifiesWriteErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"deadline", os.ErrDeadlineExceeded, ErrWriteTimeout},
		{"broken pipe", net.ErrClosed, net.ErrClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := failingWriter{ResponseRecorder: httptest.NewRecorder(), err: tt.err}
			_, err := Copy(context.Background(), w, strings.NewReader("data"), DefaultConfig())
			if !errors.Is(err, tt.want) {
				t.Errorf("Copy() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCopyOverRealConnection(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 256*1024)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := Copy(r.Context(), w, bytes.NewReader(payload), DefaultConfig()); err != nil {
			t.Errorf("Copy() error = %v", err)
		}
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("received %d bytes, want %d", len(got), len(payload))
	}
}
