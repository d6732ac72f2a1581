package world

import (
	"sort"
	"sync"

	"github.com/StoreStation/BetaCraft/pkg/nbt"
)

// Height is the number of loaded cells in a column; y is valid in [0, Height).
const Height = 128

// BlockPos represents a block position in the world.
type BlockPos struct {
	X, Y, Z int32
}

// Offset returns the position moved by dx, dy, dz.
func (p BlockPos) Offset(dx, dy, dz int32) BlockPos {
	return BlockPos{p.X + dx, p.Y + dy, p.Z + dz}
}

// Cell is the content of one block position.
type Cell struct {
	Type byte
	Meta byte
}

// World tracks the state of all blocks, including modifications, and the tag
// trees attached to container cells.
type World struct {
	mu       sync.RWMutex
	blocks   map[BlockPos]Cell
	entities map[BlockPos]nbt.Compound
}

// NewWorld creates a new World.
func NewWorld() *World {
	return &World{
		blocks:   make(map[BlockPos]Cell),
		entities: make(map[BlockPos]nbt.Compound),
	}
}

// Loaded reports whether y lies inside the loaded vertical range.
func Loaded(y int32) bool {
	return y >= 0 && y < Height
}

// GetBlock returns the cell at the given position. ok is false when the
// position is outside the loaded region.
func (w *World) GetBlock(x, y, z int32) (Cell, bool) {
	if !Loaded(y) {
		return Cell{}, false
	}
	w.mu.RLock()
	c, ok := w.blocks[BlockPos{x, y, z}]
	w.mu.RUnlock()
	if ok {
		return c, true
	}
	return FlatWorldBlock(y), true
}

// SetBlock sets the cell at the given position. Writes outside the loaded
// region are ignored. A tag tree attached to the cell is released unless the
// new content is still a chest.
func (w *World) SetBlock(x, y, z int32, c Cell) bool {
	if !Loaded(y) {
		return false
	}
	pos := BlockPos{x, y, z}
	w.mu.Lock()
	w.blocks[pos] = c
	if c.Type != BlockChest {
		delete(w.entities, pos)
	}
	w.mu.Unlock()
	return true
}

// GetModifications returns a copy of all modified blocks.
func (w *World) GetModifications() map[BlockPos]Cell {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make(map[BlockPos]Cell, len(w.blocks))
	for k, v := range w.blocks {
		result[k] = v
	}
	return result
}

// ComplexEntity returns the tag tree attached to a cell.
func (w *World) ComplexEntity(x, y, z int32) (nbt.Compound, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.entities[BlockPos{x, y, z}]
	return c, ok
}

// SetComplexEntity attaches tree to a cell, replacing any previous tree.
func (w *World) SetComplexEntity(x, y, z int32, tree nbt.Compound) {
	w.mu.Lock()
	w.entities[BlockPos{x, y, z}] = tree
	w.mu.Unlock()
}

// ComplexEntities returns the positions carrying a tag tree, in ascending
// x, y, z order, together with the trees.
func (w *World) ComplexEntities() ([]BlockPos, map[BlockPos]nbt.Compound) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	trees := make(map[BlockPos]nbt.Compound, len(w.entities))
	positions := make([]BlockPos, 0, len(w.entities))
	for k, v := range w.entities {
		trees[k] = v
		positions = append(positions, k)
	}
	SortPositions(positions)
	return positions, trees
}

// Snapshot is a copy of a world's modified cells and attached trees, safe to
// read from another goroutine.
type Snapshot struct {
	Cells     map[BlockPos]Cell
	Positions []BlockPos
	Trees     map[BlockPos]nbt.Compound
}

// Snapshot copies the modified cells and the tree index. Trees are shared
// with the world; an attached tree is replaced, never edited in place.
func (w *World) Snapshot() Snapshot {
	positions, trees := w.ComplexEntities()
	return Snapshot{
		Cells:     w.GetModifications(),
		Positions: positions,
		Trees:     trees,
	}
}

// SortPositions orders positions by x, then y, then z.
func SortPositions(ps []BlockPos) {
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
}

// FlatWorldBlock returns the default cell for a flat world at the given Y level.
func FlatWorldBlock(y int32) Cell {
	switch {
	case y < 0 || y >= Height:
		return Cell{}
	case y == 0:
		return Cell{Type: BlockBedrock}
	case y <= 3:
		return Cell{Type: BlockDirt}
	case y == 4:
		return Cell{Type: BlockGrass}
	default:
		return Cell{}
	}
}
