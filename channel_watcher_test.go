package conduct

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestChannelWatcher_ForwardsValues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := make(chan []byte, 2)
	src <- []byte("one")
	src <- []byte("two")

	out, err := NewChannelWatcher(src).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	for _, want := range []string{"one", "two"} {
		select {
		case got := <-out:
			if !bytes.Equal(got, []byte(want)) {
				t.Errorf("expected %q, got %q", want, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestChannelWatcher_ClosesOnSourceClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := make(chan []byte)
	out, err := NewChannelWatcher(src).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	close(src)

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func TestChannelWatcher_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := make(chan []byte)
	out, err := NewChannelWatcher(src).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for close after cancel")
	}
}

func TestSyncChannelWatcher_ReturnsSourceDirectly(t *testing.T) {
	src := make(chan []byte, 1)
	out, err := NewSyncChannelWatcher(src).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	src <- []byte("direct")
	select {
	case got := <-out:
		if string(got) != "direct" {
			t.Errorf("expected direct, got %q", got)
		}
	default:
		t.Fatal("expected value available without goroutine handoff")
	}
}
