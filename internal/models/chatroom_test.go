package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestPairKeyOf_OrderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if PairKeyOf(a, b) != PairKeyOf(b, a) {
		t.Fatal("pair key depends on argument order")
	}
	if PairKeyOf(a, b) == PairKeyOf(a, uuid.New()) {
		t.Fatal("distinct pairs share a key")
	}
}

func TestChatroom_Counterpart(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	room := Chatroom{PairKey: PairKeyOf(a, b)}

	got, ok := room.Counterpart(a)
	if !ok || got != b {
		t.Fatalf("Counterpart(a) = %s, %v; want %s", got, ok, b)
	}
	got, ok = room.Counterpart(b)
	if !ok || got != a {
		t.Fatalf("Counterpart(b) = %s, %v; want %s", got, ok, a)
	}
	if _, ok := room.Counterpart(uuid.New()); ok {
		t.Fatal("Counterpart accepted a non-participant")
	}
}
