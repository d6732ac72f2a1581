package server

import (
	"github.com/StoreStation/BetaCraft/pkg/protocol"
	"github.com/StoreStation/BetaCraft/pkg/world"
)

// sendAll queues pkt for every logged-in session.
func (s *Server) sendAll(pkt []byte) {
	for _, sess := range s.sessions {
		if sess.LoggedIn {
			sess.send(pkt)
		}
	}
}

// sendOthers queues pkt for every logged-in session except from.
func (s *Server) sendOthers(from *Session, pkt []byte) {
	for _, sess := range s.sessions {
		if sess != from && sess.LoggedIn {
			sess.send(pkt)
		}
	}
}

func chatPacket(msg string) []byte {
	return protocol.Marshal(protocol.OpChatMessage, func(w *protocol.Writer) {
		w.String16(msg)
	})
}

func (s *Server) broadcastChat(msg string) {
	s.sendAll(chatPacket(msg))
}

func (s *Server) sendChat(sess *Session, msg string) {
	sess.send(chatPacket(msg))
}

func (s *Server) broadcastBlockChange(x, y, z int32, c world.Cell) {
	s.sendAll(protocol.Marshal(protocol.OpBlockChange, func(w *protocol.Writer) {
		w.Int32(x)
		w.Int8(int8(y))
		w.Int32(z)
		w.Uint8(c.Type)
		w.Uint8(c.Meta)
	}))
}

// setBlock writes a cell and tells everyone about it.
func (s *Server) setBlock(x, y, z int32, c world.Cell) {
	if s.world.SetBlock(x, y, z, c) {
		s.broadcastBlockChange(x, y, z, c)
	}
}

func (s *Server) broadcastDestroyEntity(entityID int32) {
	s.sendAll(protocol.Marshal(protocol.OpDestroyEntity, func(w *protocol.Writer) {
		w.Int32(entityID)
	}))
}

// angle packs degrees into the wire's 1/256-turn byte.
func angle(deg float32) int8 {
	return int8(int32(deg * 256 / 360))
}

// fixed converts a block coordinate to the wire's 1/32-block integer.
func fixed(v float64) int32 {
	return int32(v * 32)
}

func (s *Server) broadcastEntityTeleport(sess *Session) {
	s.sendOthers(sess, protocol.Marshal(protocol.OpEntityTeleport, func(w *protocol.Writer) {
		w.Int32(sess.ID)
		w.Int32(fixed(sess.Pos.X))
		w.Int32(fixed(sess.Pos.Y))
		w.Int32(fixed(sess.Pos.Z))
		w.Int8(angle(sess.Pos.Yaw))
		w.Int8(angle(sess.Pos.Pitch))
	}))
}

func (s *Server) broadcastEntityLook(sess *Session) {
	s.sendOthers(sess, protocol.Marshal(protocol.OpEntityLook, func(w *protocol.Writer) {
		w.Int32(sess.ID)
		w.Int8(angle(sess.Pos.Yaw))
		w.Int8(angle(sess.Pos.Pitch))
	}))
}

func namedEntitySpawn(target *Session) []byte {
	return protocol.Marshal(protocol.OpNamedEntitySpawn, func(w *protocol.Writer) {
		w.Int32(target.ID)
		w.String16(target.Nick)
		w.Int32(fixed(target.Pos.X))
		w.Int32(fixed(target.Pos.Y))
		w.Int32(fixed(target.Pos.Z))
		w.Int8(angle(target.Pos.Yaw))
		w.Int8(angle(target.Pos.Pitch))
		w.Int16(0) // current item
	})
}

// spawnPlayerForOthers shows player to every other logged-in session.
func (s *Server) spawnPlayerForOthers(player *Session) {
	s.sendOthers(player, namedEntitySpawn(player))
}

// spawnOthersForPlayer shows every other logged-in session to player.
func (s *Server) spawnOthersForPlayer(player *Session) {
	for _, other := range s.sessions {
		if other != player && other.LoggedIn {
			player.send(namedEntitySpawn(other))
		}
	}
}

func (s *Server) sendKeepAlives() {
	s.sendAll(protocol.Marshal(protocol.OpKeepAlive, nil))
}
