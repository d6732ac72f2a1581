package server

import (
	"strings"

	"github.com/StoreStation/BetaCraft/pkg/chat"
	"github.com/StoreStation/BetaCraft/pkg/protocol"
)

// timeAfterDawn is the world time sent at login.
const timeAfterDawn = 0x0e00

func (s *Server) handleKeepAlive(*Session, *keepAlive) {}

func (s *Server) handleHandshake(sess *Session, p *handshake) {
	s.log.Debug().Str("player", p.Name).Int32("session", sess.ID).Msg("handshake")
	sess.send(protocol.Marshal(protocol.OpHandshake, func(w *protocol.Writer) {
		w.String16("-")
	}))
}

func (s *Server) handleLogin(sess *Session, p *loginRequest) {
	s.log.Info().Str("player", p.Name).Int32("session", sess.ID).Int32("version", p.Version).Msg("login request")

	if sess.LoggedIn {
		s.log.Warn().Str("player", sess.Nick).Msg("repeated login ignored")
		return
	}
	if p.Version != protocol.ProtocolVersion {
		s.kick(sess, s.cfg.WrongProtocolMessage)
		return
	}
	if s.loggedInCount() >= s.cfg.MaxPlayers {
		s.kick(sess, s.cfg.ServerFullMessage)
		return
	}

	sess.Nick = p.Name
	sess.Pos = Position{
		X:      s.cfg.Spawn.X,
		Y:      s.cfg.Spawn.Y,
		Z:      s.cfg.Spawn.Z,
		Stance: s.cfg.Spawn.Y + playerEyeHeight,
	}

	sess.send(protocol.Marshal(protocol.OpLogin, func(w *protocol.Writer) {
		w.Int32(sess.ID)
		w.String16("")
		w.String16("")
		w.Int64(s.cfg.Seed)
		w.Int8(0)
	}))
	sess.send(protocol.Marshal(protocol.OpTimeUpdate, func(w *protocol.Writer) {
		w.Int64(timeAfterDawn)
	}))
	for _, g := range []SlotGroup{GroupMain, GroupCrafting, GroupEquipped} {
		s.sendInventory(sess, g)
	}
	for _, line := range s.motd {
		s.sendChat(sess, line)
	}

	s.teleport(sess, sess.Pos.X, sess.Pos.Y+2, sess.Pos.Z)
	s.spawnPlayerForOthers(sess)
	s.spawnOthersForPlayer(sess)
	s.spawnItemsForPlayer(sess)
	sess.LoggedIn = true

	s.broadcastChat(chat.Joined(sess.Nick))
	s.log.Info().Str("player", sess.Nick).Int32("session", sess.ID).Msg("player connected")
}

func (s *Server) handleChat(sess *Session, p *chatMessage) {
	if !sess.LoggedIn || p.Text == "" {
		return
	}
	if strings.HasPrefix(p.Text, commandPrefix) {
		s.handleCommand(sess, p.Text)
		return
	}
	s.log.Info().Str("player", sess.Nick).Str("text", p.Text).Msg("chat")
	s.broadcastChat(chat.Truncate(chat.Player(sess.Nick, p.Text)))
}

func (s *Server) handleDisconnect(sess *Session, p *disconnect) {
	s.log.Info().Str("player", sess.name()).Str("reason", p.Reason).Msg("disconnect")
	s.closeSession(sess)
}

// kick tells the session why it is being dropped and closes it.
func (s *Server) kick(sess *Session, reason string) {
	s.log.Info().Str("player", sess.name()).Str("reason", reason).Msg("kicking")
	sess.send(protocol.Marshal(protocol.OpDisconnect, func(w *protocol.Writer) {
		w.String16(reason)
	}))
	s.closeSession(sess)
}
