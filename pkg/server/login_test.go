package server

import (
	"bytes"
	"testing"

	"github.com/StoreStation/BetaCraft/pkg/chat"
	"github.com/StoreStation/BetaCraft/pkg/config"
	"github.com/StoreStation/BetaCraft/pkg/protocol"
)

func kickPacket(reason string) []byte {
	return protocol.Marshal(protocol.OpDisconnect, func(w *protocol.Writer) { w.String16(reason) })
}

func TestLogin(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 1234
	s := New(cfg, WithRand(&scriptedRand{}), WithMOTD([]string{"Welcome", chat.Colored("be nice", chat.Red)}))
	sess := addConn(s)

	if err := s.receive(sess, loginPacket(protocol.ProtocolVersion, "alice")); err != nil {
		t.Fatalf("receive: %v", err)
	}

	if !sess.LoggedIn || sess.Nick != "alice" {
		t.Fatalf("session = %q logged in %v, want alice logged in", sess.Nick, sess.LoggedIn)
	}
	wantLogin := protocol.Marshal(protocol.OpLogin, func(w *protocol.Writer) {
		w.Int32(sess.ID)
		w.String16("")
		w.String16("")
		w.Int64(1234)
		w.Int8(0)
	})
	if !bytes.HasPrefix(sess.pending.Bytes(), wantLogin) {
		t.Errorf("output does not start with the login response")
	}

	wantTime := protocol.Marshal(protocol.OpTimeUpdate, func(w *protocol.Writer) { w.Int64(timeAfterDawn) })
	wantMain := protocol.Marshal(protocol.OpPlayerInventory, func(w *protocol.Writer) {
		w.Int32(int32(GroupMain))
		w.Int16(36)
		for i := 0; i < 36; i++ {
			w.Int16(-1)
		}
	})
	wantTeleport := protocol.Marshal(protocol.OpPlayerPositionAndLook, func(w *protocol.Writer) {
		w.Float64(cfg.Spawn.X)
		w.Float64(cfg.Spawn.Y + 2 + playerEyeHeight)
		w.Float64(cfg.Spawn.Y + 2)
		w.Float64(cfg.Spawn.Z)
		w.Float32(0)
		w.Float32(0)
		w.Bool(false)
	})
	for name, pkt := range map[string][]byte{
		"time":           wantTime,
		"main inventory": wantMain,
		"motd line 1":    chatPacket("Welcome"),
		"motd line 2":    chatPacket(chat.Colored("be nice", chat.Red)),
		"teleport":       wantTeleport,
		"join message":   chatPacket(chat.Joined("alice")),
	} {
		if !hasPacket(sess, pkt) {
			t.Errorf("missing %s packet", name)
		}
	}
}

func TestLoginAnnouncedToOthers(t *testing.T) {
	s := newTestServer(t)
	bob := addPlayer(s, "bob", 4.5, 5, 4.5)
	s.spawnPickup(0, 1, 5, 1, 3, 1)
	alice := addConn(s)

	s.handleLogin(alice, &loginRequest{Version: protocol.ProtocolVersion, Name: "alice"})

	if !hasPacket(bob, namedEntitySpawn(alice)) {
		t.Error("bob did not see alice spawn")
	}
	if !hasPacket(bob, chatPacket(chat.Joined("alice"))) {
		t.Error("bob did not see the join message")
	}
	if !hasPacket(alice, namedEntitySpawn(bob)) {
		t.Error("alice did not see bob")
	}
	for _, it := range s.items {
		if !hasPacket(alice, pickupPacket(it)) {
			t.Error("alice did not see the dropped item")
		}
	}
}

func TestLoginRejected(t *testing.T) {
	tests := []struct {
		name       string
		maxPlayers int
		version    int32
		reason     string
	}{
		{"old client", 20, 4, config.Default().WrongProtocolMessage},
		{"new client", 20, 6, config.Default().WrongProtocolMessage},
		{"server full", 1, protocol.ProtocolVersion, config.Default().ServerFullMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.MaxPlayers = tt.maxPlayers
			s := New(cfg, WithRand(&scriptedRand{}))
			bob := addPlayer(s, "bob", 0.5, 5, 0.5)
			sess := addConn(s)

			s.handleLogin(sess, &loginRequest{Version: tt.version, Name: "alice"})

			if sess.LoggedIn {
				t.Error("rejected session logged in")
			}
			if !sess.closing {
				t.Error("rejected session not closing")
			}
			if got, want := sess.pending.Bytes(), kickPacket(tt.reason); !bytes.Equal(got, want) {
				t.Errorf("output = %x, want %x", got, want)
			}
			if bob.pending.Len() != 0 {
				t.Error("rejected login was broadcast")
			}
		})
	}
}

func TestRepeatLoginIgnored(t *testing.T) {
	s := newTestServer(t)
	sess := addPlayer(s, "alice", 0.5, 5, 0.5)

	s.handleLogin(sess, &loginRequest{Version: protocol.ProtocolVersion, Name: "mallory"})

	if sess.Nick != "alice" || sess.pending.Len() != 0 {
		t.Errorf("repeated login changed the session: nick %q, %d bytes queued", sess.Nick, sess.pending.Len())
	}
}

func TestHandshake(t *testing.T) {
	s := newTestServer(t)
	sess := addConn(s)

	s.handleHandshake(sess, &handshake{Name: "alice"})

	want := protocol.Marshal(protocol.OpHandshake, func(w *protocol.Writer) { w.String16("-") })
	if !bytes.Equal(sess.pending.Bytes(), want) {
		t.Errorf("output = %x, want %x", sess.pending.Bytes(), want)
	}
}

func TestChat(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(s, "alice", 0.5, 5, 0.5)
	bob := addPlayer(s, "bob", 0.5, 5, 0.5)
	lurker := addConn(s)

	s.handleChat(alice, &chatMessage{Text: "hi"})
	s.handleChat(lurker, &chatMessage{Text: "spam"})

	want := chatPacket("<alice> hi")
	for _, sess := range []*Session{alice, bob} {
		if !bytes.Equal(sess.pending.Bytes(), want) {
			t.Errorf("%s output = %x, want %x", sess.Nick, sess.pending.Bytes(), want)
		}
	}
	if lurker.pending.Len() != 0 {
		t.Error("session that has not logged in received chat")
	}
}

func TestDisconnectAnnounced(t *testing.T) {
	s := newTestServer(t)
	alice := addPlayer(s, "alice", 0.5, 5, 0.5)
	bob := addPlayer(s, "bob", 0.5, 5, 0.5)

	data := protocol.Marshal(protocol.OpDisconnect, func(w *protocol.Writer) { w.String16("Quitting") })
	if err := s.receive(alice, data); err != nil {
		t.Fatalf("receive: %v", err)
	}
	s.flush()

	if _, ok := s.sessions[alice.ID]; ok {
		t.Error("alice still registered after flush")
	}
	destroy := protocol.Marshal(protocol.OpDestroyEntity, func(w *protocol.Writer) { w.Int32(alice.ID) })
	if !hasPacket(bob, destroy) {
		t.Error("bob did not see alice's entity destroyed")
	}
	if !hasPacket(bob, chatPacket(chat.Left("alice"))) {
		t.Error("bob did not see the leave message")
	}
}
