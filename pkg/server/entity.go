package server

import (
	"github.com/StoreStation/BetaCraft/pkg/protocol"
)

// ItemEntity represents an item dropped on the ground. Coordinates are in
// 1/32 block units.
type ItemEntity struct {
	ID      int32
	Item    int16
	Count   int8
	Health  int16
	X, Y, Z int32
	Yaw     int8
	Pitch   int8
	Roll    int8

	// SpawnedBy is the session whose action created the item.
	SpawnedBy int32
}

// pickupJitter bounds the random offset, in 1/32 block units, of a spawned
// drop inside its cell.
const pickupJitter = 22

// spawnPickup drops count of item somewhere inside cell (x, y, z) on behalf
// of session spawnedBy.
func (s *Server) spawnPickup(spawnedBy, x, y, z int32, item int16, count int8) {
	it := &ItemEntity{
		ID:        s.newEID(),
		Item:      item,
		Count:     count,
		X:         x*32 + 5 + int32(s.rand.Intn(pickupJitter)),
		Y:         y * 32,
		Z:         z*32 + 5 + int32(s.rand.Intn(pickupJitter)),
		SpawnedBy: spawnedBy,
	}
	s.trackItem(it)
}

func (s *Server) trackItem(it *ItemEntity) {
	s.items[it.ID] = it
	s.sendAll(pickupPacket(it))
}

func pickupPacket(it *ItemEntity) []byte {
	return protocol.Marshal(protocol.OpPickupSpawn, func(w *protocol.Writer) {
		w.Int32(it.ID)
		w.Int16(it.Item)
		w.Int8(it.Count)
		w.Int32(it.X)
		w.Int32(it.Y)
		w.Int32(it.Z)
		w.Int8(it.Yaw)
		w.Int8(it.Pitch)
		w.Int8(it.Roll)
	})
}

// spawnItemsForPlayer shows every tracked drop to a newly joined session.
func (s *Server) spawnItemsForPlayer(sess *Session) {
	for _, it := range s.items {
		sess.send(pickupPacket(it))
	}
}

// handlePickupSpawn turns an item the client threw into a server entity.
// Clients resend spawns, so ids seen recently are ignored.
func (s *Server) handlePickupSpawn(sess *Session, p *pickupSpawn) {
	if !sess.LoggedIn || !sess.rememberSpawn(p.ID) {
		return
	}
	s.trackItem(&ItemEntity{
		ID:        s.newEID(),
		Item:      p.Item,
		Count:     p.Count,
		X:         p.X,
		Y:         p.Y,
		Z:         p.Z,
		Yaw:       p.Yaw,
		Pitch:     p.Pitch,
		Roll:      p.Roll,
		SpawnedBy: sess.ID,
	})
}

func (s *Server) handleHoldingChange(sess *Session, p *holdingChange) {
	sess.Holding = p.Item
	s.sendOthers(sess, protocol.Marshal(protocol.OpHoldingChange, func(w *protocol.Writer) {
		w.Int32(sess.ID)
		w.Int16(p.Item)
	}))
}

func (s *Server) handleArmAnimation(sess *Session, p *armAnimation) {
	s.sendOthers(sess, protocol.Marshal(protocol.OpArmAnimation, func(w *protocol.Writer) {
		w.Int32(sess.ID)
		w.Int8(p.Animation)
	}))
}

// handleUseEntity only consumes the packet; combat is not simulated.
func (s *Server) handleUseEntity(sess *Session, p *useEntity) {
	s.log.Debug().Str("player", sess.name()).Int32("target", p.Target).Msg("use entity")
}
