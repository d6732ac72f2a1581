package server

import (
	"github.com/StoreStation/BetaCraft/pkg/nbt"
	"github.com/StoreStation/BetaCraft/pkg/world"
)

// handleComplexEntities attaches a client's compressed tag tree to a chest.
// Payloads for anything else, or that fail to decode, are dropped.
func (s *Server) handleComplexEntities(sess *Session, p *complexEntities) {
	x, y, z := p.X, int32(p.Y), p.Z
	cell, ok := s.world.GetBlock(x, y, z)
	if !ok || cell.Type != world.BlockChest {
		s.log.Debug().Str("player", sess.name()).Int32("x", x).Int32("y", y).Int32("z", z).
			Uint8("block", cell.Type).Msg("complex entity for non-chest ignored")
		return
	}
	tree, err := nbt.DecodeGzip(p.Data)
	if err != nil {
		s.log.Warn().Err(err).Str("player", sess.name()).Int32("x", x).Int32("y", y).Int32("z", z).
			Msg("bad complex entity payload")
		return
	}
	s.world.SetComplexEntity(x, y, z, tree)
}
