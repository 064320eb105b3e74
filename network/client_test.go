package network

import (
	"errors"
	"testing"

	"github.com/leap-fish/necs/esync"
)

func TestSnapshotBufferDropsOldest(t *testing.T) {
	c := NewClient(2)
	for i := 1; i <= 3; i++ {
		c.push(Snapshot{{ID: esync.NetworkId(i)}})
	}

	got := c.DrainSnapshots()
	if len(got) != 2 {
		t.Fatalf("expected 2 buffered snapshots, got %d", len(got))
	}
	if got[0][0].ID != 2 || got[1][0].ID != 3 {
		t.Fatalf("expected snapshots 2 and 3 in arrival order, got %d and %d", got[0][0].ID, got[1][0].ID)
	}
	if c.Dropped() != 1 {
		t.Fatalf("expected 1 dropped snapshot, got %d", c.Dropped())
	}
	if rest := c.DrainSnapshots(); len(rest) != 0 {
		t.Fatalf("expected empty buffer after drain, got %d", len(rest))
	}
}

func TestSendWithoutConnection(t *testing.T) {
	c := NewClient(1)
	if err := c.Fire(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}
