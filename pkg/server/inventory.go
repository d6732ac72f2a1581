package server

import "github.com/StoreStation/BetaCraft/pkg/protocol"

// sendInventory sends one slot group to the session's client.
func (s *Server) sendInventory(sess *Session, g SlotGroup) {
	slots, ok := sess.Inv.Group(g)
	if !ok {
		return
	}
	sess.send(protocol.Marshal(protocol.OpPlayerInventory, func(w *protocol.Writer) {
		w.Int32(int32(g))
		w.Int16(int16(len(slots)))
		for _, slot := range slots {
			if slot.Empty() {
				w.Int16(-1)
				continue
			}
			w.Int16(slot.Type)
			w.Int8(slot.Count)
			w.Int16(slot.Health)
		}
	}))
}

// handleInventory replaces a slot group with the client's copy. Slots past
// the sent count are left empty.
func (s *Server) handleInventory(sess *Session, p *playerInventory) {
	slots, ok := sess.Inv.Group(p.Group)
	if !ok {
		return
	}
	for i := range slots {
		slots[i] = emptySlot
	}
	copy(slots, p.Slots)
}
