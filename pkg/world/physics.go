package world

// Liquids tracks fluid cells that may still flow. It is not safe for
// concurrent use; the server drives it from its event loop.
type Liquids struct {
	w      *World
	active map[BlockPos]struct{}
}

// NewLiquids creates a simulator over w.
func NewLiquids(w *World) *Liquids {
	return &Liquids{w: w, active: make(map[BlockPos]struct{})}
}

var neighbours = [6][3]int32{
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
	{-1, 0, 0}, {1, 0, 0},
}

// CheckSurrounding activates p and any fluid in its six neighbours.
func (l *Liquids) CheckSurrounding(p BlockPos) {
	l.activateFluid(p)
	for _, d := range neighbours {
		l.activateFluid(p.Offset(d[0], d[1], d[2]))
	}
}

func (l *Liquids) activateFluid(p BlockPos) {
	if c, ok := l.w.GetBlock(p.X, p.Y, p.Z); ok && IsFluid(c.Type) {
		l.active[p] = struct{}{}
	}
}

// AddSimulation activates p unconditionally.
func (l *Liquids) AddSimulation(p BlockPos) {
	l.active[p] = struct{}{}
}

// Active returns the number of cells awaiting a step.
func (l *Liquids) Active() int { return len(l.active) }

// Step lets every active fluid cell flow one cell down into air. It returns
// the positions it changed in ascending order.
func (l *Liquids) Step() []BlockPos {
	if len(l.active) == 0 {
		return nil
	}
	cells := make([]BlockPos, 0, len(l.active))
	for p := range l.active {
		cells = append(cells, p)
	}
	SortPositions(cells)
	l.active = make(map[BlockPos]struct{})

	var changed []BlockPos
	for _, p := range cells {
		c, ok := l.w.GetBlock(p.X, p.Y, p.Z)
		if !ok || !IsFluid(c.Type) {
			continue
		}
		below := p.Offset(0, -1, 0)
		bc, ok := l.w.GetBlock(below.X, below.Y, below.Z)
		if !ok || bc.Type != BlockAir {
			continue
		}
		flow := BlockWater
		if c.Type == BlockLava || c.Type == BlockStationaryLava {
			flow = BlockLava
		}
		l.w.SetBlock(below.X, below.Y, below.Z, Cell{Type: flow})
		l.active[below] = struct{}{}
		changed = append(changed, below)
	}
	SortPositions(changed)
	return changed
}
