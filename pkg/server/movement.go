package server

import "github.com/StoreStation/BetaCraft/pkg/protocol"

// playerEyeHeight is the distance from the feet to the stance.
const playerEyeHeight = 1.62

// teleport moves the session and tells its client.
func (s *Server) teleport(sess *Session, x, y, z float64) {
	sess.Pos.X, sess.Pos.Y, sess.Pos.Z = x, y, z
	sess.Pos.Stance = y + playerEyeHeight
	sess.send(protocol.Marshal(protocol.OpPlayerPositionAndLook, func(w *protocol.Writer) {
		w.Float64(x)
		w.Float64(sess.Pos.Stance)
		w.Float64(y)
		w.Float64(z)
		w.Float32(sess.Pos.Yaw)
		w.Float32(sess.Pos.Pitch)
		w.Bool(sess.Pos.OnGround)
	}))
}

func (s *Server) handlePlayer(sess *Session, p *player) {
	sess.Pos.OnGround = p.OnGround
}

func (s *Server) handlePosition(sess *Session, p *playerPosition) {
	sess.Pos.X, sess.Pos.Y, sess.Pos.Z = p.X, p.Y, p.Z
	sess.Pos.Stance = p.Stance
	sess.Pos.OnGround = p.OnGround
	if sess.LoggedIn {
		s.broadcastEntityTeleport(sess)
	}
}

func (s *Server) handleLook(sess *Session, p *playerLook) {
	sess.Pos.Yaw, sess.Pos.Pitch = p.Yaw, p.Pitch
	sess.Pos.OnGround = p.OnGround
	if sess.LoggedIn {
		s.broadcastEntityLook(sess)
	}
}

func (s *Server) handlePositionAndLook(sess *Session, p *playerPositionAndLook) {
	sess.Pos.X, sess.Pos.Y, sess.Pos.Z = p.X, p.Y, p.Z
	sess.Pos.Stance = p.Stance
	sess.Pos.Yaw, sess.Pos.Pitch = p.Yaw, p.Pitch
	sess.Pos.OnGround = p.OnGround
	if sess.LoggedIn {
		s.broadcastEntityTeleport(sess)
	}
}
