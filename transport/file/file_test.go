package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jfernandez/courier"
)

func testEnvelope(t *testing.T) courier.Envelope {
	t.Helper()
	from, err := courier.NewEmailAddress("alice@example.org")
	if err != nil {
		t.Fatalf("NewEmailAddress: %v", err)
	}
	to, err := courier.NewEmailAddress("bob@example.org")
	if err != nil {
		t.Fatalf("NewEmailAddress: %v", err)
	}
	env, err := courier.NewEnvelope(&from, []courier.EmailAddress{to})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return env
}

func TestSendWritesDumpFile(t *testing.T) {
	dir := t.TempDir()
	tr := New(dir)

	env := testEnvelope(t)
	email := courier.NewSendableEmail(env, "msg-1", []byte("Hello"))

	if err := tr.Send(context.Background(), email); err != nil {
		t.Fatalf("Send: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "msg-1.json"))
	if err != nil {
		t.Fatalf("dump file not written: %v", err)
	}

	var dumped Email
	if err := json.Unmarshal(data, &dumped); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if dumped.MessageID != "msg-1" {
		t.Errorf("MessageID = %q, want %q", dumped.MessageID, "msg-1")
	}
	if dumped.Message != "Hello" {
		t.Errorf("Message = %q, want %q", dumped.Message, "Hello")
	}
	if !dumped.Envelope.Equal(env) {
		t.Error("dumped envelope does not match the original")
	}
}

func TestSendStreamingSource(t *testing.T) {
	dir := t.TempDir()
	tr := New(dir)

	email := courier.NewSendableEmailFromReader(testEnvelope(t), "msg-2", strings.NewReader("streamed body"))
	if err := tr.Send(context.Background(), email); err != nil {
		t.Fatalf("Send: %v", err)
	}

	dumped, err := Read(dir, "msg-2")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if dumped.Message != "streamed body" {
		t.Errorf("Message = %q, want %q", dumped.Message, "streamed body")
	}
}

func TestSendInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	tr := New(dir)

	email := courier.NewSendableEmail(testEnvelope(t), "msg-3", []byte{0xff, 0xfe})
	err := tr.Send(context.Background(), email)
	if !errors.Is(err, courier.ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}

	// Nothing may be written on the failure path.
	if _, err := os.Stat(filepath.Join(dir, "msg-3.json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("dump file written despite drain failure")
	}
}

func TestSendFileMode(t *testing.T) {
	dir := t.TempDir()
	tr := New(dir, WithFileMode(0o600))

	email := courier.NewSendableEmail(testEnvelope(t), "msg-4", []byte("Hello"))
	if err := tr.Send(context.Background(), email); err != nil {
		t.Fatalf("Send: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "msg-4.json"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Errorf("file mode = %o, want 600", got)
	}
}

func TestSendMissingDirectory(t *testing.T) {
	tr := New(filepath.Join(t.TempDir(), "does-not-exist"))

	email := courier.NewSendableEmail(testEnvelope(t), "msg-5", []byte("Hello"))
	if err := tr.Send(context.Background(), email); err == nil {
		t.Fatal("expected write error for missing directory")
	}
}

func TestSendRejectsPathSeparators(t *testing.T) {
	dir := t.TempDir()
	tr := New(dir)

	tests := []struct {
		name string
		id   string
	}{
		{name: "slash", id: "../escape"},
		{name: "nested slash", id: "sub/dir"},
		{name: "backslash", id: `..\escape`},
		{name: "dot dot", id: ".."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := courier.NewSendableEmail(testEnvelope(t), tt.id, []byte("Hello"))
			if err := tr.Send(context.Background(), email); !errors.Is(err, ErrInvalidMessageID) {
				t.Fatalf("expected ErrInvalidMessageID, got %v", err)
			}
			// Rejected before the payload is touched.
			if _, err := email.Message(); err != nil {
				t.Errorf("email was consumed despite rejected ID: %v", err)
			}
		})
	}

	// Nothing escaped the dump directory.
	parent := filepath.Dir(dir)
	if _, err := os.Stat(filepath.Join(parent, "escape.json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("dump file written outside the directory")
	}
}

func TestReadRejectsPathSeparators(t *testing.T) {
	if _, err := Read(t.TempDir(), "../other"); !errors.Is(err, ErrInvalidMessageID) {
		t.Fatalf("expected ErrInvalidMessageID, got %v", err)
	}
}

func TestReadMissingEmail(t *testing.T) {
	if _, err := Read(t.TempDir(), "nope"); err == nil {
		t.Fatal("expected error for missing dump")
	}
}
