package server

import (
	"bytes"
	"net"

	"github.com/StoreStation/BetaCraft/pkg/protocol"
)

// Position is where a session's actor stands and looks.
type Position struct {
	X, Y, Z  float64
	Stance   float64
	Yaw      float32
	Pitch    float32
	OnGround bool
}

// Slot is one inventory cell. Type -1 marks an empty slot.
type Slot struct {
	Type   int16
	Count  int8
	Health int16
}

var emptySlot = Slot{Type: -1}

// Empty reports whether the slot holds nothing.
func (s Slot) Empty() bool { return s.Type == -1 || s.Count == 0 }

// SlotGroup selects one of the three inventory arrays on the wire.
type SlotGroup int32

const (
	GroupMain     SlotGroup = -1
	GroupCrafting SlotGroup = -2
	GroupEquipped SlotGroup = -3
)

// Inventory is the actor's main, crafting and equipped slots.
type Inventory struct {
	Main     [36]Slot
	Crafting [4]Slot
	Equipped [4]Slot
}

func newInventory() Inventory {
	var inv Inventory
	for _, g := range []SlotGroup{GroupMain, GroupCrafting, GroupEquipped} {
		slots, _ := inv.Group(g)
		for i := range slots {
			slots[i] = emptySlot
		}
	}
	return inv
}

// Group returns the slots addressed by g.
func (inv *Inventory) Group(g SlotGroup) ([]Slot, bool) {
	switch g {
	case GroupMain:
		return inv.Main[:], true
	case GroupCrafting:
		return inv.Crafting[:], true
	case GroupEquipped:
		return inv.Equipped[:], true
	}
	return nil, false
}

const recentSpawnCount = 10

// Session is one connected actor. It is owned by the server's event loop.
type Session struct {
	ID           int32
	Nick         string
	Pos          Position
	Inv          Inventory
	ViewDistance int
	Holding      int16
	LoggedIn     bool

	// client ids of the last pickup spawns this session sent
	recentSpawns [recentSpawnCount]int32
	recentLen    int
	recentPos    int

	in      protocol.Buffer
	pending bytes.Buffer
	closing bool

	conn net.Conn
	out  chan []byte
}

func newSession(id int32, conn net.Conn, viewDistance int) *Session {
	sess := &Session{
		ID:           id,
		Inv:          newInventory(),
		ViewDistance: viewDistance,
		Holding:      -1,
		conn:         conn,
	}
	if conn != nil {
		sess.out = make(chan []byte, outQueueSize)
	}
	return sess
}

// send queues an encoded packet for the session.
func (sess *Session) send(pkt []byte) {
	if sess.closing {
		return
	}
	sess.pending.Write(pkt)
}

// rememberSpawn records a client spawn id and reports whether it was new.
func (sess *Session) rememberSpawn(id int32) bool {
	for i := 0; i < sess.recentLen; i++ {
		if sess.recentSpawns[i] == id {
			return false
		}
	}
	sess.recentSpawns[sess.recentPos] = id
	sess.recentPos = (sess.recentPos + 1) % recentSpawnCount
	if sess.recentLen < recentSpawnCount {
		sess.recentLen++
	}
	return true
}

func (sess *Session) name() string {
	if sess.Nick == "" {
		return "?"
	}
	return sess.Nick
}
