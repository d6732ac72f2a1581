package server

import (
	"testing"

	"github.com/StoreStation/BetaCraft/pkg/protocol"
)

func TestPickupSpawnDedupe(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(s, "alice", 0.5, 5, 0.5)
	bob := addPlayer(s, "bob", 0.5, 5, 0.5)

	throw := func(id int32) {
		s.handlePickupSpawn(alice, &pickupSpawn{ID: id, Item: 4, Count: 1, X: 32, Y: 160, Z: 32})
	}

	for id := int32(1); id <= recentSpawnCount; id++ {
		throw(id)
	}
	if len(s.items) != recentSpawnCount {
		t.Fatalf("items = %d, want %d", len(s.items), recentSpawnCount)
	}

	throw(1)
	if len(s.items) != recentSpawnCount {
		t.Errorf("repeated spawn accepted: items = %d", len(s.items))
	}

	throw(recentSpawnCount + 1)
	throw(1)
	if len(s.items) != recentSpawnCount+2 {
		t.Errorf("items = %d, want %d once the oldest id is forgotten", len(s.items), recentSpawnCount+2)
	}

	for _, it := range s.items {
		if !hasPacket(bob, pickupPacket(it)) {
			t.Errorf("bob did not see item %d", it.ID)
		}
	}
}

func TestPickupSpawnUsesServerIDs(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(s, "alice", 0.5, 5, 0.5)

	s.handlePickupSpawn(alice, &pickupSpawn{ID: alice.ID, Item: 4, Count: 1})

	it := onlyItem(t, s)
	if it.ID == alice.ID {
		t.Errorf("item reused the client's id %d", it.ID)
	}
	if it.SpawnedBy != alice.ID {
		t.Errorf("SpawnedBy = %d, want %d", it.SpawnedBy, alice.ID)
	}
}

func TestPickupSpawnBeforeLogin(t *testing.T) {
	s := newTestServer(t)
	sess := addConn(s)
	s.handlePickupSpawn(sess, &pickupSpawn{ID: 7, Item: 4, Count: 1})
	if len(s.items) != 0 {
		t.Errorf("items = %d, want 0", len(s.items))
	}
}

func TestHoldingChangeEcho(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(s, "alice", 0.5, 5, 0.5)
	bob := addPlayer(s, "bob", 0.5, 5, 0.5)

	// the actor id a client sends is not trusted
	s.handleHoldingChange(alice, &holdingChange{Actor: bob.ID, Item: 276})

	if alice.Holding != 276 {
		t.Errorf("Holding = %d, want 276", alice.Holding)
	}
	want := protocol.Marshal(protocol.OpHoldingChange, func(w *protocol.Writer) {
		w.Int32(alice.ID)
		w.Int16(276)
	})
	if !hasPacket(bob, want) {
		t.Error("bob did not see the holding change")
	}
	if alice.pending.Len() != 0 {
		t.Error("holding change echoed to its sender")
	}
}

func TestArmAnimationEcho(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(s, "alice", 0.5, 5, 0.5)
	bob := addPlayer(s, "bob", 0.5, 5, 0.5)

	s.handleArmAnimation(alice, &armAnimation{Actor: alice.ID, Animation: 1})

	want := protocol.Marshal(protocol.OpArmAnimation, func(w *protocol.Writer) {
		w.Int32(alice.ID)
		w.Int8(1)
	})
	if !hasPacket(bob, want) {
		t.Error("bob did not see the swing")
	}
	if alice.pending.Len() != 0 {
		t.Error("animation echoed to its sender")
	}
}

func TestUseEntityConsumed(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(s, "alice", 0.5, 5, 0.5)
	data := protocol.Marshal(protocol.OpUseEntity, func(w *protocol.Writer) {
		w.Int32(alice.ID)
		w.Int32(99)
	})
	if err := s.receive(alice, data); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if alice.in.Len() != 0 {
		t.Errorf("%d bytes left, want the packet consumed", alice.in.Len())
	}
}
