package server

import (
	"github.com/StoreStation/BetaCraft/pkg/world"
)

var air = world.Cell{Type: world.BlockAir}

// wallTorches lists, for each horizontal neighbour of a dug cell, the torch
// orientation that hangs on the dug cell's face.
var wallTorches = [4]struct {
	dx, dz int32
	meta   byte
}{
	{1, 0, world.TorchNorth},
	{-1, 0, world.TorchSouth},
	{0, 1, world.TorchEast},
	{0, -1, world.TorchWest},
}

func (s *Server) handleDigging(sess *Session, p *playerDigging) {
	if p.Status != digBroken {
		return
	}
	s.breakBlock(sess, p.X, int32(p.Y), p.Z)
}

// breakBlock clears a cell, drops what it yields and lets the cells that
// depended on it fall or pop off.
func (s *Server) breakBlock(sess *Session, x, y, z int32) {
	cell, ok := s.world.GetBlock(x, y, z)
	if !ok {
		return
	}
	s.log.Debug().Str("player", sess.name()).Int32("x", x).Int32("y", y).Int32("z", z).
		Uint8("block", cell.Type).Msg("block broken")
	s.setBlock(x, y, z, air)

	for _, t := range wallTorches {
		nx, nz := x+t.dx, z+t.dz
		if c, ok := s.world.GetBlock(nx, y, nz); ok && world.IsTorch(c.Type) && c.Meta == t.meta {
			s.setBlock(nx, y, nz, air)
			s.spawnPickup(sess.ID, nx, y, nz, int16(c.Type), 1)
		}
	}

	if top, ok := s.world.GetBlock(x, y+1, z); ok &&
		(world.NeedsSupport(top.Type) || (world.IsTorch(top.Type) && top.Meta == world.TorchTop)) {
		s.setBlock(x, y+1, z, air)
		if top.Type != world.BlockSnow {
			s.spawnPickup(sess.ID, x, y+1, z, int16(top.Type), 1)
		}
	}

	if cell.Type > 0 && cell.Type < 255 && cell.Type != world.BlockSnow {
		if d, ok := s.drops.Roll(cell.Type, s.rand.Intn(world.MaxRoll)); ok && d.Count > 0 {
			s.spawnPickup(sess.ID, x, y, z, d.Item, d.Count)
		}
	}

	s.liquids.CheckSurrounding(world.BlockPos{X: x, Y: y, Z: z})

	for {
		above, ok := s.world.GetBlock(x, y+1, z)
		if !ok || !world.IsUnsupported(above.Type) {
			break
		}
		s.setBlock(x, y+1, z, air)
		s.setBlock(x, y, z, above)
		y++
	}
}

// faceOffset returns the cell adjacent to (x, y, z) across face dir.
func faceOffset(x, y, z int32, dir int8) (int32, int32, int32, bool) {
	switch dir {
	case 0:
		y--
	case 1:
		y++
	case 2:
		z--
	case 3:
		z++
	case 4:
		x--
	case 5:
		x++
	default:
		return x, y, z, false
	}
	return x, y, z, true
}
