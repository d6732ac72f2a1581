package server

import (
	"testing"

	"github.com/StoreStation/BetaCraft/pkg/world"
)

func onlyItem(t *testing.T, s *Server) *ItemEntity {
	t.Helper()
	if len(s.items) != 1 {
		t.Fatalf("items = %d, want 1", len(s.items))
	}
	for _, it := range s.items {
		return it
	}
	return nil
}

func TestBreakBlockDrops(t *testing.T) {
	tests := []struct {
		name      string
		block     byte
		roll      int
		wantItem  int16
		wantCount int8
		wantDrop  bool
	}{
		{"stone gives cobblestone", world.BlockStone, 0, int16(world.BlockCobblestone), 1, true},
		{"gravel hit gives flint", world.BlockGravel, 849, world.ItemFlint, 1, true},
		{"gravel miss gives gravel", world.BlockGravel, 850, int16(world.BlockGravel), 1, true},
		{"leaves hit gives sapling", world.BlockLeaves, 100, int16(world.BlockSapling), 1, true},
		{"leaves miss gives nothing", world.BlockLeaves, 5000, 0, 0, false},
		{"glass gives nothing", world.BlockGlass, 0, 0, 0, false},
		{"lapis ore gives dye", world.BlockLapisOre, 9999, world.ItemDye, 4, true},
		{"unlisted block drops itself", world.BlockLog, 9999, int16(world.BlockLog), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, WithRand(&scriptedRand{values: []int{tt.roll, 3, 7}}))
			sess := addPlayer(s, "alice", 0.5, 5, 0.5)
			setCell(t, s, 20, 10, 20, tt.block, 0)

			s.handleDigging(sess, &playerDigging{Status: digBroken, X: 20, Y: 10, Z: 20})

			if got := cellAt(s, 20, 10, 20); got.Type != world.BlockAir {
				t.Errorf("cell = %d, want air", got.Type)
			}
			if !tt.wantDrop {
				if len(s.items) != 0 {
					t.Errorf("items = %d, want 0", len(s.items))
				}
				return
			}
			it := onlyItem(t, s)
			if it.Item != tt.wantItem || it.Count != tt.wantCount {
				t.Errorf("drop = %d x%d, want %d x%d", it.Item, it.Count, tt.wantItem, tt.wantCount)
			}
			if it.X != 20*32+5+3 || it.Y != 10*32 || it.Z != 20*32+5+7 {
				t.Errorf("drop at (%d, %d, %d), want (648, 320, 652)", it.X, it.Y, it.Z)
			}
			if it.SpawnedBy != sess.ID {
				t.Errorf("SpawnedBy = %d, want %d", it.SpawnedBy, sess.ID)
			}
			if !hasPacket(sess, pickupPacket(it)) {
				t.Error("pickup spawn not sent")
			}
		})
	}
}

func TestBreakSnowDropsNothing(t *testing.T) {
	r := &scriptedRand{}
	s := newTestServer(t, WithRand(r))
	sess := addPlayer(s, "alice", 0.5, 5, 0.5)
	setCell(t, s, 3, 5, 3, world.BlockSnow, 0)

	s.handleDigging(sess, &playerDigging{Status: digBroken, X: 3, Y: 5, Z: 3})

	if len(s.items) != 0 {
		t.Errorf("items = %d, want 0", len(s.items))
	}
	if r.calls != 0 {
		t.Errorf("rand used %d times, want 0", r.calls)
	}
}

func TestDiggingIgnoresUnfinishedStatuses(t *testing.T) {
	s := newTestServer(t)
	sess := addPlayer(s, "alice", 0.5, 5, 0.5)
	for _, status := range []int8{digStarted, digDigging, digStopped, digDropItem} {
		s.handleDigging(sess, &playerDigging{Status: status, X: 0, Y: 4, Z: 0})
	}
	if got := cellAt(s, 0, 4, 0); got.Type != world.BlockGrass {
		t.Errorf("cell = %d, want grass", got.Type)
	}
}

func TestBreakBlockOutsideWorld(t *testing.T) {
	s := newTestServer(t)
	sess := addPlayer(s, "alice", 0.5, 5, 0.5)
	s.handleDigging(sess, &playerDigging{Status: digBroken, X: 0, Y: -1, Z: 0})
	if sess.pending.Len() != 0 || len(s.items) != 0 {
		t.Error("breaking below the world had effects")
	}
}

func TestBreakBlockBroadcasts(t *testing.T) {
	s := newTestServer(t)
	digger := addPlayer(s, "alice", 0.5, 5, 0.5)
	watcher := addPlayer(s, "bob", 5.5, 5, 5.5)
	lurker := addConn(s)

	s.handleDigging(digger, &playerDigging{Status: digBroken, X: 2, Y: 4, Z: 2})

	want := blockChangePacket(2, 4, 2, world.BlockAir, 0)
	for _, sess := range []*Session{digger, watcher} {
		if !hasPacket(sess, want) {
			t.Errorf("%s did not see the block change", sess.Nick)
		}
	}
	if lurker.pending.Len() != 0 {
		t.Error("session that has not logged in received a broadcast")
	}
}

func TestGravelSettles(t *testing.T) {
	s := newTestServer(t)
	sess := addPlayer(s, "alice", 0.5, 5, 0.5)
	setCell(t, s, 7, 10, 7, world.BlockStone, 0)
	setCell(t, s, 7, 11, 7, world.BlockGravel, 0)
	setCell(t, s, 7, 12, 7, world.BlockGravel, 0)
	setCell(t, s, 7, 13, 7, world.BlockSand, 0)

	s.handleDigging(sess, &playerDigging{Status: digBroken, X: 7, Y: 11, Z: 7})

	want := []byte{world.BlockStone, world.BlockGravel, world.BlockSand, world.BlockAir}
	for i, typ := range want {
		y := int32(10 + i)
		if got := cellAt(s, 7, y, 7); got.Type != typ {
			t.Errorf("cell at y %d = %d, want %d", y, got.Type, typ)
		}
	}
}

func TestBreakBlockCascadesDecorations(t *testing.T) {
	s := newTestServer(t)
	sess := addPlayer(s, "alice", 0.5, 5, 0.5)
	setCell(t, s, 0, 10, 0, world.BlockStone, 0)
	setCell(t, s, 1, 10, 0, world.BlockTorch, world.TorchNorth)
	setCell(t, s, -1, 10, 0, world.BlockTorch, world.TorchSouth)
	setCell(t, s, 0, 10, 1, world.BlockRedstoneTorchOn, world.TorchEast)
	setCell(t, s, 0, 10, -1, world.BlockTorch, world.TorchNorth)
	setCell(t, s, 0, 11, 0, world.BlockTorch, world.TorchTop)

	s.handleDigging(sess, &playerDigging{Status: digBroken, X: 0, Y: 10, Z: 0})

	cleared := [][3]int32{{1, 10, 0}, {-1, 10, 0}, {0, 10, 1}, {0, 11, 0}}
	for _, p := range cleared {
		if got := cellAt(s, p[0], p[1], p[2]); got.Type != world.BlockAir {
			t.Errorf("cell %v = %d, want air", p, got.Type)
		}
	}
	if got := cellAt(s, 0, 10, -1); got.Type != world.BlockTorch {
		t.Errorf("torch facing away = %d, want it kept", got.Type)
	}
	// four torches plus the cobblestone
	if len(s.items) != 5 {
		t.Errorf("items = %d, want 5", len(s.items))
	}
}

func TestBreakBlockUnderSnowAndFlower(t *testing.T) {
	tests := []struct {
		name      string
		top       byte
		wantItems int
	}{
		{"snow vanishes", world.BlockSnow, 1},
		{"flower drops", world.BlockYellowFlower, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			sess := addPlayer(s, "alice", 0.5, 5, 0.5)
			setCell(t, s, 4, 10, 4, world.BlockDirt, 0)
			setCell(t, s, 4, 11, 4, tt.top, 0)

			s.handleDigging(sess, &playerDigging{Status: digBroken, X: 4, Y: 10, Z: 4})

			if got := cellAt(s, 4, 11, 4); got.Type != world.BlockAir {
				t.Errorf("top = %d, want air", got.Type)
			}
			if len(s.items) != tt.wantItems {
				t.Errorf("items = %d, want %d", len(s.items), tt.wantItems)
			}
		})
	}
}

func TestBreakBlockWakesLiquids(t *testing.T) {
	s := newTestServer(t)
	sess := addPlayer(s, "alice", 0.5, 5, 0.5)
	setCell(t, s, 9, 4, 9, world.BlockStationaryWater, 0)

	s.handleDigging(sess, &playerDigging{Status: digBroken, X: 9, Y: 3, Z: 9})
	s.stepLiquids()

	if got := cellAt(s, 9, 3, 9); got.Type != world.BlockWater {
		t.Errorf("cell = %d, want flowing water", got.Type)
	}
	if !hasPacket(sess, blockChangePacket(9, 3, 9, world.BlockWater, 0)) {
		t.Error("liquid flow not broadcast")
	}
}

func TestFaceOffset(t *testing.T) {
	tests := []struct {
		dir     int8
		x, y, z int32
		ok      bool
	}{
		{0, 5, 4, 5, true},
		{1, 5, 6, 5, true},
		{2, 5, 5, 4, true},
		{3, 5, 5, 6, true},
		{4, 4, 5, 5, true},
		{5, 6, 5, 5, true},
		{6, 5, 5, 5, false},
		{-1, 5, 5, 5, false},
	}
	for _, tt := range tests {
		x, y, z, ok := faceOffset(5, 5, 5, tt.dir)
		if x != tt.x || y != tt.y || z != tt.z || ok != tt.ok {
			t.Errorf("faceOffset(dir %d) = (%d, %d, %d, %v), want (%d, %d, %d, %v)",
				tt.dir, x, y, z, ok, tt.x, tt.y, tt.z, tt.ok)
		}
	}
}
