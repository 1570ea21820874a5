package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *CounterStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counters.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestObserveFirstSeenIsFresh(t *testing.T) {
	s := openTestStore(t)
	var uid [7]byte
	copy(uid[:], []byte{0x04, 0xDE, 0x5F, 0x1E, 0xAC, 0xC0, 0x40})

	fresh, err := s.Observe(uid, 5)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if !fresh {
		t.Fatalf("first observation of a UID must be fresh")
	}
}

func TestObserveRejectsNonAdvancingCounter(t *testing.T) {
	s := openTestStore(t)
	var uid [7]byte
	copy(uid[:], []byte{0x04, 0xDE, 0x5F, 0x1E, 0xAC, 0xC0, 0x40})

	if _, err := s.Observe(uid, 10); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	fresh, err := s.Observe(uid, 10)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if fresh {
		t.Fatalf("a repeated counter must not be reported fresh")
	}
	fresh, err = s.Observe(uid, 9)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if fresh {
		t.Fatalf("a decreasing counter must not be reported fresh")
	}
}

func TestObserveAcceptsAdvancingCounter(t *testing.T) {
	s := openTestStore(t)
	var uid [7]byte
	copy(uid[:], []byte{0x04, 0xDE, 0x5F, 0x1E, 0xAC, 0xC0, 0x40})

	if _, err := s.Observe(uid, 10); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	fresh, err := s.Observe(uid, 11)
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if !fresh {
		t.Fatalf("an advancing counter must be reported fresh")
	}

	last, seen, err := s.Last(uid)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if !seen || last != 11 {
		t.Fatalf("Last = (%d, %v), want (11, true)", last, seen)
	}
}

func TestLastUnknownUID(t *testing.T) {
	s := openTestStore(t)
	var uid [7]byte
	copy(uid[:], []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	_, seen, err := s.Last(uid)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if seen {
		t.Fatalf("expected seen=false for a UID never observed")
	}
}

func TestObserveTracksDistinctUIDsIndependently(t *testing.T) {
	s := openTestStore(t)
	var uidA, uidB [7]byte
	copy(uidA[:], []byte{0x04, 0xDE, 0x5F, 0x1E, 0xAC, 0xC0, 0x40})
	copy(uidB[:], []byte{0x04, 0x95, 0x8C, 0xAA, 0x5C, 0x5E, 0x80})

	if _, err := s.Observe(uidA, 100); err != nil {
		t.Fatalf("Observe A: %v", err)
	}
	if _, err := s.Observe(uidB, 1); err != nil {
		t.Fatalf("Observe B: %v", err)
	}

	lastA, _, err := s.Last(uidA)
	if err != nil {
		t.Fatalf("Last A: %v", err)
	}
	lastB, _, err := s.Last(uidB)
	if err != nil {
		t.Fatalf("Last B: %v", err)
	}
	if lastA != 100 || lastB != 1 {
		t.Fatalf("counters not independent: A=%d B=%d", lastA, lastB)
	}
}
