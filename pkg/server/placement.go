package server

import (
	"math"

	"github.com/StoreStation/BetaCraft/pkg/world"
)

// noFace is the direction a client sends when it clicked nothing.
const noFace = -1

func (s *Server) handlePlacement(sess *Session, p *blockPlacement) {
	if p.Direction == noFace || p.Y < 0 {
		return
	}
	cx, cy, cz := p.X, int32(p.Y), p.Z

	clicked, _ := s.world.GetBlock(cx, cy, cz)
	x, y, z, ok := faceOffset(cx, cy, cz, p.Direction)
	if !ok {
		return
	}
	target, loaded := s.world.GetBlock(x, y, z)
	s.liquids.CheckSurrounding(world.BlockPos{X: x, Y: y, Z: z})

	if world.IsDoor(clicked.Type) {
		s.toggleDoor(cx, cy, cz, clicked)
		return
	}
	if p.Block <= 0 || p.Block >= 255 {
		return
	}
	block := byte(p.Block)

	change := loaded && world.IsReplaceable(target.Type) && !world.IsFixture(clicked.Type)

	switch clicked.Type {
	case world.BlockSnow, world.BlockTorch, world.BlockFire:
		change = true
		x, y, z = cx, cy, cz
	}

	if world.IsAttachable(clicked.Type) && world.IsAttachable(block) {
		change = false
	}

	if change && !world.IsPassable(block) && collides(sess.Pos, block, x, y, z) {
		change = false
	}
	if !change {
		return
	}

	var meta byte
	if world.IsTorch(block) && p.Direction != 0 {
		meta = byte(6 - p.Direction)
	}
	c := world.Cell{Type: block, Meta: meta}
	s.setBlock(x, y, z, c)
	s.log.Debug().Str("player", sess.name()).Int32("x", x).Int32("y", y).Int32("z", z).
		Uint8("block", block).Msg("block placed")

	if world.IsFluid(block) {
		s.liquids.AddSimulation(world.BlockPos{X: x, Y: y, Z: z})
	}
}

// toggleDoor flips the open bit of a door leaf and of its other half, if the
// cell above or below holds the same door.
func (s *Server) toggleDoor(x, y, z int32, leaf world.Cell) {
	leaf.Meta ^= world.DoorOpen
	dy := int32(1)
	if leaf.Meta&world.DoorUpper != 0 {
		dy = -1
	}
	if other, ok := s.world.GetBlock(x, y+dy, z); ok && other.Type == leaf.Type {
		s.setBlock(x, y+dy, z, world.Cell{Type: leaf.Type, Meta: leaf.Meta ^ world.DoorUpper})
	}
	s.setBlock(x, y, z, leaf)
}

// collides reports whether a block placed at (x, y, z) would overlap the
// actor standing at pos. The thresholds are empirical.
func collides(pos Position, block byte, x, y, z int32) bool {
	fy := float64(y)
	if fy < pos.Y-0.5 {
		return false
	}
	if fy > pos.Y+1.5 && !(world.IsTall(block) && fy <= pos.Y+2.5) {
		return false
	}

	intX, fracX := math.Modf(pos.X)
	intZ, fracZ := math.Modf(pos.Z)
	fracX, fracZ = math.Abs(fracX), math.Abs(fracZ)
	if intX < 0 {
		intX--
	}
	if intZ < 0 {
		intZ--
	}
	xFix, zFix := 1.0, 1.0
	if intX < 0 {
		xFix = -1
	}
	if intZ < 0 {
		zFix = -1
	}

	fx, fz := float64(x), float64(z)
	overlapsZ := fz == intZ || (fz == intZ-zFix && fracZ < 0.3) || (fz == intZ+zFix && fracZ > 0.7)
	overlapsX := fx == intX || (fx == intX-xFix && fracX < 0.3) || (fx == intX+xFix && fracX > 0.7)
	return overlapsZ && overlapsX
}
