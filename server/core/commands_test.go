package core

import "testing"

func TestCommandBufferWraparound(t *testing.T) {
	buffer := NewCommandBuffer(3)
	cmds := []Command{
		{Type: CommandFire, Session: 1},
		{Type: CommandForce, Session: 1},
		{Type: CommandFire, Session: 2},
	}
	for _, cmd := range cmds {
		if !buffer.Push(cmd) {
			t.Fatalf("expected push to succeed for %+v", cmd)
		}
	}
	if buffer.Push(Command{Type: CommandForce, Session: 3}) {
		t.Fatalf("expected push to fail when buffer full")
	}
	drained := buffer.Drain()
	if len(drained) != len(cmds) {
		t.Fatalf("expected %d commands, got %d", len(cmds), len(drained))
	}
	for i, cmd := range drained {
		if cmd != cmds[i] {
			t.Fatalf("expected drain order %+v, got %+v", cmds[i], cmd)
		}
	}

	for _, cmd := range []Command{{Session: 4}, {Session: 5}} {
		if !buffer.Push(cmd) {
			t.Fatalf("expected push to succeed after drain for %+v", cmd)
		}
	}
	wrapped := buffer.Drain()
	if len(wrapped) != 2 || wrapped[0].Session != 4 || wrapped[1].Session != 5 {
		t.Fatalf("unexpected order after wraparound: %+v", wrapped)
	}
	if buffer.Len() != 0 {
		t.Fatalf("expected empty buffer, got %d", buffer.Len())
	}
}

func TestSessionQueueKeepsEveryChange(t *testing.T) {
	var q sessionQueue
	for i := 1; i <= 100; i++ {
		q.push(sessionChange{session: 1, connected: i%2 == 1})
	}
	if got := len(q.drain()); got != 100 {
		t.Fatalf("expected 100 changes, got %d", got)
	}
	if got := q.drain(); got != nil {
		t.Fatalf("expected empty queue, got %v", got)
	}
}
