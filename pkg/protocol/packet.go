package protocol

import (
	"errors"
	"fmt"
)

// ProtocolVersion is the only client version accepted at login.
const ProtocolVersion = 5

// Opcode is the leading byte identifying a packet's type.
type Opcode byte

// Client and server opcodes. Several are shared by both directions.
const (
	OpKeepAlive             Opcode = 0x00
	OpLogin                 Opcode = 0x01
	OpHandshake             Opcode = 0x02
	OpChatMessage           Opcode = 0x03
	OpTimeUpdate            Opcode = 0x04
	OpPlayerInventory       Opcode = 0x05
	OpUseEntity             Opcode = 0x07
	OpPlayer                Opcode = 0x0A
	OpPlayerPosition        Opcode = 0x0B
	OpPlayerLook            Opcode = 0x0C
	OpPlayerPositionAndLook Opcode = 0x0D
	OpPlayerDigging         Opcode = 0x0E
	OpPlayerBlockPlacement  Opcode = 0x0F
	OpHoldingChange         Opcode = 0x10
	OpArmAnimation          Opcode = 0x12
	OpNamedEntitySpawn      Opcode = 0x14
	OpPickupSpawn           Opcode = 0x15
	OpDestroyEntity         Opcode = 0x1D
	OpEntityLook            Opcode = 0x20
	OpEntityTeleport        Opcode = 0x22
	OpBlockChange           Opcode = 0x35
	OpComplexEntities       Opcode = 0x3B
	OpDisconnect            Opcode = 0xFF
)

var opNames = map[Opcode]string{
	OpKeepAlive:             "KEEP_ALIVE",
	OpLogin:                 "LOGIN",
	OpHandshake:             "HANDSHAKE",
	OpChatMessage:           "CHAT_MESSAGE",
	OpTimeUpdate:            "TIME_UPDATE",
	OpPlayerInventory:       "PLAYER_INVENTORY",
	OpUseEntity:             "USE_ENTITY",
	OpPlayer:                "PLAYER",
	OpPlayerPosition:        "PLAYER_POSITION",
	OpPlayerLook:            "PLAYER_LOOK",
	OpPlayerPositionAndLook: "PLAYER_POSITION_AND_LOOK",
	OpPlayerDigging:         "PLAYER_DIGGING",
	OpPlayerBlockPlacement:  "PLAYER_BLOCK_PLACEMENT",
	OpHoldingChange:         "HOLDING_CHANGE",
	OpArmAnimation:          "ARM_ANIMATION",
	OpNamedEntitySpawn:      "NAMED_ENTITY_SPAWN",
	OpPickupSpawn:           "PICKUP_SPAWN",
	OpDestroyEntity:         "DESTROY_ENTITY",
	OpEntityLook:            "ENTITY_LOOK",
	OpEntityTeleport:        "ENTITY_TELEPORT",
	OpBlockChange:           "BLOCK_CHANGE",
	OpComplexEntities:       "COMPLEX_ENTITIES",
	OpDisconnect:            "DISCONNECT",
}

func (o Opcode) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02X)", byte(o))
}

// Result is what a packet handler reports back to the dispatcher.
type Result int

const (
	// OK means the packet was fully consumed and draining may continue.
	OK Result = iota
	// NeedMoreData means the packet is incomplete; the buffer is untouched.
	NeedMoreData
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case NeedMoreData:
		return "NEED_MORE_DATA"
	default:
		return "Result(?)"
	}
}

// LengthKind classifies how many bytes follow an opcode.
type LengthKind int

const (
	LengthZero LengthKind = iota
	LengthFixed
	LengthVariable
)

// Length is the expected payload length of a packet, opcode excluded.
type Length struct {
	Kind LengthKind
	N    int
}

var (
	Zero     = Length{Kind: LengthZero}
	Variable = Length{Kind: LengthVariable}
)

// Fixed declares a payload of exactly n bytes.
func Fixed(n int) Length {
	if n == 0 {
		return Zero
	}
	return Length{Kind: LengthFixed, N: n}
}

// Size returns the payload size when it is known up front.
func (l Length) Size() (int, bool) {
	switch l.Kind {
	case LengthZero:
		return 0, true
	case LengthFixed:
		return l.N, true
	default:
		return 0, false
	}
}

var (
	ErrUnknownOpcode = errors.New("protocol: unknown opcode")
	ErrBadString     = errors.New("protocol: negative string length")
	ErrInvalidField  = errors.New("protocol: invalid field")
)

// Marshal builds one outbound packet: the opcode followed by whatever build writes.
func Marshal(op Opcode, build func(w *Writer)) []byte {
	w := &Writer{}
	w.Uint8(byte(op))
	if build != nil {
		build(w)
	}
	return w.Bytes()
}
