package app

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"wsdetails/internal/config"
	"wsdetails/internal/logging"
	"wsdetails/internal/workspace"
)

func TestNewWithLogger_MemoryStore(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{"WSDETAILS_STORE_DRIVER": "memory"})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	a, err := NewWithLogger(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	defer func() { _ = a.Close() }()
	seeder, ok := a.Store.Seeder()
	if !ok {
		t.Fatalf("expected seeder")
	}
	_ = seeder.Seed(context.Background(), workspace.Record{Username: "u", Email: "e", Status: "Requested"})
	resp, err := a.Handler.Handle(context.Background(), json.RawMessage(`{"action":"get","requesterUsername":"u","requesterEmailAddress":"e"}`))
	if err != nil || resp.StatusCode != 200 {
		t.Fatalf("handle: %v %+v", err, resp)
	}
	if _, err := a.Registry.Gather(); err != nil {
		t.Fatalf("gather: %v", err)
	}
}

func TestNewWithLogger_Archive(t *testing.T) {
	_ = os.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	_ = os.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	defer func() {
		_ = os.Unsetenv("AWS_ACCESS_KEY_ID")
		_ = os.Unsetenv("AWS_SECRET_ACCESS_KEY")
	}()
	cfg, _ := config.LoadFrom(map[string]string{
		"WSDETAILS_STORE_DRIVER":     "memory",
		"WSDETAILS_ARCHIVE_BUCKET":   "raw-events",
		"WSDETAILS_ARCHIVE_ENDPOINT": "http://localhost:9000",
	})
	a, err := NewWithLogger(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	_ = a.Close()
}

func TestNew_BadLogFormat(t *testing.T) {
	cfg, _ := config.LoadFrom(map[string]string{"WSDETAILS_STORE_DRIVER": "memory", "WSDETAILS_LOG_FORMAT": "xml"})
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected logger error")
	}
}
