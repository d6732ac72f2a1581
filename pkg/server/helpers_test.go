package server

import (
	"bytes"
	"testing"

	"github.com/StoreStation/BetaCraft/pkg/config"
	"github.com/StoreStation/BetaCraft/pkg/protocol"
	"github.com/StoreStation/BetaCraft/pkg/world"
)

// scriptedRand returns its values in order, then zeros.
type scriptedRand struct {
	values []int
	calls  int
}

func (r *scriptedRand) Intn(n int) int {
	i := r.calls
	r.calls++
	if i >= len(r.values) {
		return 0
	}
	return r.values[i] % n
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithRand(&scriptedRand{})}, opts...)
	return New(config.Default(), opts...)
}

// addPlayer registers a logged-in session standing at (x, y, z).
func addPlayer(s *Server, nick string, x, y, z float64) *Session {
	sess := newSession(s.newEID(), nil, 10)
	sess.Nick = nick
	sess.LoggedIn = true
	sess.Pos = Position{X: x, Y: y, Z: z, Stance: y + playerEyeHeight}
	s.addSession(sess)
	return sess
}

// addConn registers a session that has not logged in yet.
func addConn(s *Server) *Session {
	sess := newSession(s.newEID(), nil, 10)
	s.addSession(sess)
	return sess
}

func setCell(t *testing.T, s *Server, x, y, z int32, typ, meta byte) {
	t.Helper()
	if !s.world.SetBlock(x, y, z, world.Cell{Type: typ, Meta: meta}) {
		t.Fatalf("SetBlock(%d, %d, %d) refused", x, y, z)
	}
}

func cellAt(s *Server, x, y, z int32) world.Cell {
	c, _ := s.world.GetBlock(x, y, z)
	return c
}

func hasPacket(sess *Session, pkt []byte) bool {
	return bytes.Contains(sess.pending.Bytes(), pkt)
}

func blockChangePacket(x int32, y int8, z int32, typ, meta byte) []byte {
	return protocol.Marshal(protocol.OpBlockChange, func(w *protocol.Writer) {
		w.Int32(x)
		w.Int8(y)
		w.Int32(z)
		w.Uint8(typ)
		w.Uint8(meta)
	})
}

func loginPacket(version int32, name string) []byte {
	return protocol.Marshal(protocol.OpLogin, func(w *protocol.Writer) {
		w.Int32(version)
		w.String16(name)
		w.String16("")
		w.Int64(0)
		w.Int8(0)
	})
}

func diggingPacket(status int8, x int32, y int8, z int32) []byte {
	return protocol.Marshal(protocol.OpPlayerDigging, func(w *protocol.Writer) {
		w.Int8(status)
		w.Int32(x)
		w.Int8(y)
		w.Int32(z)
		w.Int8(1)
	})
}

func placementPacket(block int16, x int32, y int8, z int32, dir int8) []byte {
	return protocol.Marshal(protocol.OpPlayerBlockPlacement, func(w *protocol.Writer) {
		w.Int16(block)
		w.Int32(x)
		w.Int8(y)
		w.Int32(z)
		w.Int8(dir)
	})
}
