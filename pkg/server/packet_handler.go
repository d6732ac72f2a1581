package server

import (
	"fmt"

	"github.com/StoreStation/BetaCraft/pkg/protocol"
)

type inbound interface {
	decode(c *protocol.Cursor) error
}

type handlerFunc func(s *Server, sess *Session, c *protocol.Cursor) (protocol.Result, error)

type packetDef struct {
	length protocol.Length
	handle handlerFunc
}

// packets is built once and never written afterwards.
var packets = buildRegistry()

func buildRegistry() [256]packetDef {
	var t [256]packetDef
	reg := func(op protocol.Opcode, l protocol.Length, h handlerFunc) {
		t[op] = packetDef{length: l, handle: h}
	}

	reg(protocol.OpKeepAlive, protocol.Zero, handle((*Server).handleKeepAlive))
	reg(protocol.OpLogin, protocol.Variable, handle((*Server).handleLogin))
	reg(protocol.OpHandshake, protocol.Variable, handle((*Server).handleHandshake))
	reg(protocol.OpChatMessage, protocol.Variable, handle((*Server).handleChat))
	reg(protocol.OpPlayerInventory, protocol.Variable, handle((*Server).handleInventory))
	reg(protocol.OpUseEntity, protocol.Fixed(8), handle((*Server).handleUseEntity))
	reg(protocol.OpPlayer, protocol.Fixed(1), handle((*Server).handlePlayer))
	reg(protocol.OpPlayerPosition, protocol.Fixed(33), handle((*Server).handlePosition))
	reg(protocol.OpPlayerLook, protocol.Fixed(9), handle((*Server).handleLook))
	reg(protocol.OpPlayerPositionAndLook, protocol.Fixed(41), handle((*Server).handlePositionAndLook))
	reg(protocol.OpPlayerDigging, protocol.Fixed(11), handle((*Server).handleDigging))
	reg(protocol.OpPlayerBlockPlacement, protocol.Fixed(12), handle((*Server).handlePlacement))
	reg(protocol.OpHoldingChange, protocol.Fixed(6), handle((*Server).handleHoldingChange))
	reg(protocol.OpArmAnimation, protocol.Fixed(5), handle((*Server).handleArmAnimation))
	reg(protocol.OpPickupSpawn, protocol.Fixed(22), handle((*Server).handlePickupSpawn))
	reg(protocol.OpComplexEntities, protocol.Variable, handle((*Server).handleComplexEntities))
	reg(protocol.OpDisconnect, protocol.Variable, handle((*Server).handleDisconnect))
	return t
}

// handle adapts a typed apply function into a registry handler. The packet is
// decoded in full first; apply runs only after the bytes are committed, so an
// incomplete packet never has side effects.
func handle[P any, PP interface {
	*P
	inbound
}](apply func(*Server, *Session, PP)) handlerFunc {
	return func(s *Server, sess *Session, c *protocol.Cursor) (protocol.Result, error) {
		var p P
		pkt := PP(&p)
		if err := pkt.decode(c); err != nil {
			return protocol.OK, err
		}
		if err := c.Err(); err != nil {
			return protocol.OK, err
		}
		m, ok := c.Mark()
		if !ok {
			return protocol.NeedMoreData, nil
		}
		sess.in.Consume(m)
		apply(s, sess, pkt)
		return protocol.OK, nil
	}
}

// dispatch drains every complete packet from the session's receive buffer.
// It returns nil when the buffer is empty or holds an incomplete packet, and
// an error for a protocol violation, after which the stream cannot be
// reframed.
func (s *Server) dispatch(sess *Session) error {
	for !sess.closing {
		data := sess.in.Bytes()
		if len(data) == 0 {
			return nil
		}
		op := protocol.Opcode(data[0])
		def := &packets[op]
		if def.handle == nil {
			return fmt.Errorf("%w: 0x%02X", protocol.ErrUnknownOpcode, byte(op))
		}
		if n, fixed := def.length.Size(); fixed && !sess.in.HaveData(1+n) {
			return nil
		}

		c := sess.in.Cursor()
		c.Uint8()
		res, err := def.handle(s, sess, c)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if res == protocol.NeedMoreData {
			return nil
		}
	}
	return nil
}

// receive appends freshly read bytes and drains them.
func (s *Server) receive(sess *Session, p []byte) error {
	sess.in.Append(p)
	return s.dispatch(sess)
}
