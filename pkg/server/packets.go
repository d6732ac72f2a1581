package server

import (
	"fmt"

	"github.com/StoreStation/BetaCraft/pkg/protocol"
)

// Inbound packet bodies. decode only reads from the cursor; a returned error
// is a protocol violation. Fields read past the end of the buffer come back
// as zero values and must not be validated.

type keepAlive struct{}

func (*keepAlive) decode(*protocol.Cursor) error { return nil }

type loginRequest struct {
	Version   int32
	Name      string
	Password  string
	Seed      int64
	Dimension int8
}

func (p *loginRequest) decode(c *protocol.Cursor) error {
	p.Version = c.Int32()
	p.Name = c.String16()
	p.Password = c.String16()
	p.Seed = c.Int64()
	p.Dimension = c.Int8()
	return nil
}

type handshake struct {
	Name string
}

func (p *handshake) decode(c *protocol.Cursor) error {
	p.Name = c.String16()
	return nil
}

type chatMessage struct {
	Text string
}

func (p *chatMessage) decode(c *protocol.Cursor) error {
	p.Text = c.String16()
	return nil
}

type playerInventory struct {
	Group SlotGroup
	Slots []Slot
}

func (p *playerInventory) decode(c *protocol.Cursor) error {
	p.Group = SlotGroup(c.Int32())
	n := c.Int16()
	if !c.Valid() {
		return nil
	}
	var inv Inventory
	slots, ok := inv.Group(p.Group)
	if !ok {
		return fmt.Errorf("%w: slot group %d", protocol.ErrInvalidField, p.Group)
	}
	if n < 0 || int(n) > len(slots) {
		return fmt.Errorf("%w: %d slots for group %d", protocol.ErrInvalidField, n, p.Group)
	}
	p.Slots = make([]Slot, n)
	for i := range p.Slots {
		id := c.Int16()
		if id == -1 {
			p.Slots[i] = emptySlot
			continue
		}
		count := c.Int8()
		health := c.Int16()
		p.Slots[i] = Slot{Type: id, Count: count, Health: health}
	}
	return nil
}

type useEntity struct {
	Actor  int32
	Target int32
}

func (p *useEntity) decode(c *protocol.Cursor) error {
	p.Actor = c.Int32()
	p.Target = c.Int32()
	return nil
}

type player struct {
	OnGround bool
}

func (p *player) decode(c *protocol.Cursor) error {
	p.OnGround = c.Bool()
	return nil
}

type playerPosition struct {
	X, Y, Stance, Z float64
	OnGround        bool
}

func (p *playerPosition) decode(c *protocol.Cursor) error {
	p.X = c.Float64()
	p.Y = c.Float64()
	p.Stance = c.Float64()
	p.Z = c.Float64()
	p.OnGround = c.Bool()
	return nil
}

type playerLook struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (p *playerLook) decode(c *protocol.Cursor) error {
	p.Yaw = c.Float32()
	p.Pitch = c.Float32()
	p.OnGround = c.Bool()
	return nil
}

type playerPositionAndLook struct {
	playerPosition
	Yaw, Pitch float32
}

func (p *playerPositionAndLook) decode(c *protocol.Cursor) error {
	p.X = c.Float64()
	p.Y = c.Float64()
	p.Stance = c.Float64()
	p.Z = c.Float64()
	p.Yaw = c.Float32()
	p.Pitch = c.Float32()
	p.OnGround = c.Bool()
	return nil
}

// Digging status values.
const (
	digStarted  int8 = 0
	digDigging  int8 = 1
	digStopped  int8 = 2
	digBroken   int8 = 3
	digDropItem int8 = 4
)

type playerDigging struct {
	Status    int8
	X         int32
	Y         int8
	Z         int32
	Direction int8
}

func (p *playerDigging) decode(c *protocol.Cursor) error {
	p.Status = c.Int8()
	p.X = c.Int32()
	p.Y = c.Int8()
	p.Z = c.Int32()
	p.Direction = c.Int8()
	return nil
}

type blockPlacement struct {
	Block     int16
	X         int32
	Y         int8
	Z         int32
	Direction int8
}

func (p *blockPlacement) decode(c *protocol.Cursor) error {
	p.Block = c.Int16()
	p.X = c.Int32()
	p.Y = c.Int8()
	p.Z = c.Int32()
	p.Direction = c.Int8()
	return nil
}

type holdingChange struct {
	Actor int32
	Item  int16
}

func (p *holdingChange) decode(c *protocol.Cursor) error {
	p.Actor = c.Int32()
	p.Item = c.Int16()
	return nil
}

type armAnimation struct {
	Actor     int32
	Animation int8
}

func (p *armAnimation) decode(c *protocol.Cursor) error {
	p.Actor = c.Int32()
	p.Animation = c.Int8()
	return nil
}

type pickupSpawn struct {
	ID               int32
	Item             int16
	Count            int8
	X, Y, Z          int32
	Yaw, Pitch, Roll int8
}

func (p *pickupSpawn) decode(c *protocol.Cursor) error {
	p.ID = c.Int32()
	p.Item = c.Int16()
	p.Count = c.Int8()
	p.X = c.Int32()
	p.Y = c.Int32()
	p.Z = c.Int32()
	p.Yaw = c.Int8()
	p.Pitch = c.Int8()
	p.Roll = c.Int8()
	return nil
}

type disconnect struct {
	Reason string
}

func (p *disconnect) decode(c *protocol.Cursor) error {
	p.Reason = c.String16()
	return nil
}

type complexEntities struct {
	X    int32
	Y    int16
	Z    int32
	Data []byte
}

func (p *complexEntities) decode(c *protocol.Cursor) error {
	p.X = c.Int32()
	p.Y = c.Int16()
	p.Z = c.Int32()
	n := c.Int16()
	if !c.Valid() {
		return nil
	}
	if n < 0 {
		return fmt.Errorf("%w: payload length %d", protocol.ErrInvalidField, n)
	}
	p.Data = c.Bytes(int(n))
	return nil
}
