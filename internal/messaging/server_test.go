package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pixil98/go-testutil"
)

func TestNatsServer_PublishBeforeStart(t *testing.T) {
	s, err := NewNatsServer(WithInProcess())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "publish", s.Publish("x", nil), ErrNotStarted, cmpopts.EquateErrors())
	_, err = s.Subscribe("x", func([]byte) {})
	testutil.AssertEqual(t, "subscribe", err, ErrNotStarted, cmpopts.EquateErrors())
}

func TestNatsServer_RoundTrip(t *testing.T) {
	s, err := NewNatsServer(WithInProcess())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-s.Ready():
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for nats")
	}

	got := make(chan string, 1)
	unsub, err := s.Subscribe(PlayerSubject("p1"), func(data []byte) {
		got <- string(data)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	if err := NewNatsPublisher(s).SendToPlayer("p1", "You have killed yourself!"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	select {
	case msg := <-got:
		testutil.AssertEqual(t, "message", msg, "You have killed yourself!")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}
