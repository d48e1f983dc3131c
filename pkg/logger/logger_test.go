package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithShopper(ctx, "sess-abc")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"shopper\"")) {
		t.Fatalf("expected shopper to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerWithOperation(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})
	ctx := log.WithOperation(context.Background(), "cart.add")
	log.Info(ctx, "issuing mutation")

	if !bytes.Contains(buf.Bytes(), []byte("\"op\":\"cart.add\"")) {
		t.Fatalf("expected op field; entry=%s", buf.String())
	}
}

func TestInfoLevelSuppressesDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: buf})

	log.Debug(context.Background(), "noisy bootstrap detail")
	if buf.Len() != 0 {
		t.Fatalf("debug entry leaked through info level: %s", buf.String())
	}

	log.Info(context.Background(), "starting up")
	if !bytes.Contains(buf.Bytes(), []byte("starting up")) {
		t.Fatalf("expected info entry; got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fall back to info, got %v", lvl)
	}
}
