package server

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/StoreStation/BetaCraft/pkg/chat"
)

// commandPrefix starts a chat line addressed to the server.
const commandPrefix = "/"

// handleCommand dispatches a /-prefixed chat line from a player.
func (s *Server) handleCommand(sess *Session, line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	cmd := strings.ToLower(parts[0])
	s.log.Info().Str("player", sess.Nick).Str("command", line).Msg("command")

	switch cmd {
	case "/list", "/players":
		s.handleListCommand(sess)
	case "/tp", "/teleport":
		s.handleTpCommand(sess, parts[1:])
	case "/home", "/spawn":
		s.teleport(sess, s.cfg.Spawn.X, s.cfg.Spawn.Y+2, s.cfg.Spawn.Z)
		s.broadcastEntityTeleport(sess)
	case "/save":
		s.handleSaveCommand(sess)
	default:
		s.sendChat(sess, chat.Colored("Unknown command: "+cmd, chat.Red))
	}
}

func (s *Server) handleListCommand(sess *Session) {
	var nicks []string
	for _, other := range s.sessions {
		if other.LoggedIn {
			nicks = append(nicks, other.Nick)
		}
	}
	sort.Strings(nicks)
	s.sendChat(sess, chat.Truncate(chat.Colored(
		fmt.Sprintf("Players (%d/%d): %s", len(nicks), s.cfg.MaxPlayers, strings.Join(nicks, ", ")), chat.Gray)))
}

// handleTpCommand handles the /tp command.
// Usage: /tp <x> <y> <z> or /tp <player>
func (s *Server) handleTpCommand(sess *Session, args []string) {
	switch len(args) {
	case 3:
		x, err1 := strconv.ParseFloat(args[0], 64)
		y, err2 := strconv.ParseFloat(args[1], 64)
		z, err3 := strconv.ParseFloat(args[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			s.sendChat(sess, chat.Colored("Invalid coordinates. Usage: /tp <x> <y> <z>", chat.Red))
			return
		}
		s.teleport(sess, x, y, z)
		s.broadcastEntityTeleport(sess)
		s.sendChat(sess, chat.Colored(fmt.Sprintf("Teleported to %.1f, %.1f, %.1f", x, y, z), chat.Gray))
	case 1:
		var target *Session
		for _, other := range s.sessions {
			if other.LoggedIn && strings.EqualFold(other.Nick, args[0]) {
				target = other
				break
			}
		}
		if target == nil {
			s.sendChat(sess, chat.Colored("Player not found: "+args[0], chat.Red))
			return
		}
		s.teleport(sess, target.Pos.X, target.Pos.Y, target.Pos.Z)
		s.broadcastEntityTeleport(sess)
		s.sendChat(sess, chat.Colored("Teleported to "+target.Nick, chat.Gray))
	default:
		s.sendChat(sess, chat.Colored("Usage: /tp <x> <y> <z> or /tp <player>", chat.Red))
	}
}

// handleSaveCommand writes a snapshot of the world to the configured
// database from a background goroutine. The result comes back to the loop as
// an evSaved event.
func (s *Server) handleSaveCommand(sess *Session) {
	if s.store == nil {
		s.sendChat(sess, chat.Colored("No world database configured", chat.Red))
		return
	}
	if s.saving {
		s.sendChat(sess, chat.Colored("A save is already running", chat.Gray))
		return
	}
	s.saving = true
	snap := s.world.Snapshot()
	store := s.store
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		err := store.Save(context.Background(), snap)
		s.post(event{kind: evSaved, sess: sess, err: err})
	}()
}

// finishSave reports a save started by sess, if sess is still connected.
func (s *Server) finishSave(sess *Session, err error) {
	s.saving = false
	online := s.sessions[sess.ID] == sess && sess.LoggedIn
	if err != nil {
		s.log.Error().Err(err).Str("player", sess.name()).Msg("save failed")
		if online {
			s.sendChat(sess, chat.Colored("Save failed", chat.Red))
		}
		return
	}
	s.log.Info().Str("player", sess.name()).Str("db", s.cfg.WorldDB).Msg("world saved")
	if online {
		s.sendChat(sess, chat.Colored("World saved", chat.Gray))
	}
}
