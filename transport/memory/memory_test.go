package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jfernandez/courier"
)

func testEnvelope(t *testing.T) courier.Envelope {
	t.Helper()
	to, err := courier.NewEmailAddress("bob@example.org")
	if err != nil {
		t.Fatalf("NewEmailAddress: %v", err)
	}
	env, err := courier.NewEnvelope(nil, []courier.EmailAddress{to})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	return env
}

func TestSendRecords(t *testing.T) {
	tr := New()
	env := testEnvelope(t)

	email := courier.NewSendableEmail(env, "mem-1", []byte("Hello"))
	if err := tr.Send(context.Background(), email); err != nil {
		t.Fatalf("Send: %v", err)
	}

	rec, ok := tr.Get("mem-1")
	if !ok {
		t.Fatal("sent email not found")
	}
	if string(rec.Body) != "Hello" {
		t.Errorf("Body = %q, want %q", rec.Body, "Hello")
	}
	if !rec.Envelope.Equal(env) {
		t.Error("recorded envelope does not match")
	}
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}

	// The email was consumed by the transport.
	if _, err := email.Message(); !errors.Is(err, courier.ErrMessageConsumed) {
		t.Errorf("expected ErrMessageConsumed, got %v", err)
	}
}

func TestGetUnknownID(t *testing.T) {
	tr := New()
	if _, ok := tr.Get("missing"); ok {
		t.Error("Get returned a record for an unknown ID")
	}
}

func TestAllPreservesSendOrder(t *testing.T) {
	tr := New()
	env := testEnvelope(t)

	for _, id := range []string{"first", "second", "third"} {
		email := courier.NewSendableEmail(env, id, []byte(id))
		if err := tr.Send(context.Background(), email); err != nil {
			t.Fatalf("Send %s: %v", id, err)
		}
	}

	all := tr.All()
	if len(all) != 3 {
		t.Fatalf("All() has %d records, want 3", len(all))
	}
	for i, want := range []string{"first", "second", "third"} {
		if all[i].MessageID != want {
			t.Errorf("All()[%d].MessageID = %q, want %q", i, all[i].MessageID, want)
		}
	}
}

func TestRecordsAreCopies(t *testing.T) {
	tr := New()
	email := courier.NewSendableEmail(testEnvelope(t), "mem-2", []byte("Hello"))
	if err := tr.Send(context.Background(), email); err != nil {
		t.Fatalf("Send: %v", err)
	}

	rec, _ := tr.Get("mem-2")
	rec.Body[0] = 'X'

	again, _ := tr.Get("mem-2")
	if string(again.Body) != "Hello" {
		t.Error("mutating a returned record changed the stored copy")
	}
}

func TestReset(t *testing.T) {
	tr := New()
	email := courier.NewSendableEmail(testEnvelope(t), "mem-3", []byte("Hello"))
	if err := tr.Send(context.Background(), email); err != nil {
		t.Fatalf("Send: %v", err)
	}

	tr.Reset()
	if tr.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", tr.Len())
	}
	if _, ok := tr.Get("mem-3"); ok {
		t.Error("Get found a record after Reset")
	}
}

func TestConcurrentSends(t *testing.T) {
	tr := New()
	env := testEnvelope(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("mem-c-%d", i)
			email := courier.NewSendableEmail(env, id, []byte(id))
			if err := tr.Send(context.Background(), email); err != nil {
				t.Errorf("Send %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	if tr.Len() != n {
		t.Errorf("Len() = %d, want %d", tr.Len(), n)
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("mem-c-%d", i)
		rec, ok := tr.Get(id)
		if !ok {
			t.Errorf("missing record %s", id)
			continue
		}
		if string(rec.Body) != id {
			t.Errorf("record %s has body %q", id, rec.Body)
		}
	}
}
