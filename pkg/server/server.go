package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/StoreStation/BetaCraft/pkg/chat"
	"github.com/StoreStation/BetaCraft/pkg/config"
	"github.com/StoreStation/BetaCraft/pkg/storage"
	"github.com/StoreStation/BetaCraft/pkg/world"
)

const (
	keepAliveInterval = 10 * time.Second
	liquidTick        = 200 * time.Millisecond
	outQueueSize      = 256
	readBufferSize    = 4096
)

// Rand supplies drop rolls and spawn jitter.
type Rand interface {
	Intn(n int) int
}

// worldStore persists world snapshots.
type worldStore interface {
	Save(ctx context.Context, snap world.Snapshot) error
	Close() error
}

// Option customizes a Server.
type Option func(*Server)

// WithRand replaces the random source.
func WithRand(r Rand) Option { return func(s *Server) { s.rand = r } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Server) { s.log = l } }

// WithDrops replaces the drop table.
func WithDrops(d world.DropTable) Option { return func(s *Server) { s.drops = d } }

// WithWorld serves an existing world.
func WithWorld(w *world.World) Option { return func(s *Server) { s.world = w } }

// WithMOTD sets the lines sent after login.
func WithMOTD(lines []string) Option { return func(s *Server) { s.motd = lines } }

// Server represents a beta Minecraft server.
type Server struct {
	cfg     config.Config
	log     zerolog.Logger
	world   *world.World
	liquids *world.Liquids
	drops   world.DropTable
	rand    Rand
	motd    []string
	store   worldStore

	// owned by the event loop
	sessions map[int32]*Session
	items    map[int32]*ItemEntity
	saving   bool

	saves sync.WaitGroup

	nextEID atomic.Int32

	mu       sync.Mutex
	listener net.Listener
	events   chan event
	stopCh   chan struct{}
	done     chan struct{}
	running  bool
	stopOnce sync.Once
}

type eventKind int

const (
	evJoin eventKind = iota
	evData
	evLeave
	evSaved
)

type event struct {
	kind eventKind
	sess *Session
	data []byte
	err  error
}

// New creates a new server with the given configuration.
func New(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		log:      zerolog.Nop(),
		sessions: make(map[int32]*Session),
		items:    make(map[int32]*ItemEntity),
		events:   make(chan event, 64),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.world == nil {
		s.world = world.NewWorld()
	}
	if s.drops == nil {
		s.drops = world.DefaultDrops()
	}
	if s.rand == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rand = rand.New(rand.NewSource(seed))
	}
	s.liquids = world.NewLiquids(s.world)
	return s
}

// World returns the world the server mutates.
func (s *Server) World() *world.World { return s.world }

// Start loads the saved world, if configured, and begins listening for
// connections.
func (s *Server) Start() error {
	if s.cfg.WorldDB != "" {
		st, err := storage.Open(s.cfg.WorldDB)
		if err != nil {
			return fmt.Errorf("open world db: %w", err)
		}
		cells, trees, err := st.LoadWorld(context.Background(), s.world)
		if err != nil {
			st.Close()
			return fmt.Errorf("load world: %w", err)
		}
		s.store = st
		s.log.Info().Str("db", s.cfg.WorldDB).Int("cells", cells).Int("trees", trees).Msg("world loaded")
	}

	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		if s.store != nil {
			s.store.Close()
			s.store = nil
		}
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.running = true
	s.mu.Unlock()
	s.log.Info().Str("address", ln.Addr().String()).Msg("server listening")

	go s.run()
	go s.acceptLoop(ln)
	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes every connection, waits for the event loop and any running
// save to finish, then saves the world.
func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.mu.Lock()
		running := s.running
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Unlock()
		if running {
			<-s.done
		}
		s.saves.Wait()
		if s.store != nil {
			if serr := s.store.Save(context.Background(), s.world.Snapshot()); serr != nil {
				err = fmt.Errorf("save world: %w", serr)
			} else {
				s.log.Info().Str("db", s.cfg.WorldDB).Msg("world saved")
			}
			if cerr := s.store.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	})
	return err
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn().Err(err).Msg("accept error")
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) newEID() int32 {
	return s.nextEID.Add(1)
}

func (s *Server) post(ev event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.stopCh:
		return false
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	sess := newSession(s.newEID(), conn, s.cfg.ViewDistance)
	out := sess.out
	if !s.post(event{kind: evJoin, sess: sess}) {
		conn.Close()
		return
	}
	go s.writeLoop(conn, out, sess.ID)

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			data := append([]byte(nil), buf[:n]...)
			if !s.post(event{kind: evData, sess: sess, data: data}) {
				return
			}
		}
		if err != nil {
			break
		}
	}
	s.post(event{kind: evLeave, sess: sess})
}

// writeLoop drains the session's queue to its connection and closes the
// connection once the queue is closed.
func (s *Server) writeLoop(conn net.Conn, out <-chan []byte, id int32) {
	defer conn.Close()
	for pkt := range out {
		if _, err := conn.Write(pkt); err != nil {
			s.log.Debug().Err(err).Int32("session", id).Msg("write failed")
			for range out {
			}
			return
		}
	}
}

// run is the event loop. It owns the world, the sessions and the item
// entities; nothing else touches them while it runs.
func (s *Server) run() {
	defer close(s.done)
	liquids := time.NewTicker(liquidTick)
	defer liquids.Stop()
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case <-liquids.C:
			s.stepLiquids()
		case <-keepAlive.C:
			s.sendKeepAlives()
		case <-s.stopCh:
			s.shutdown()
			return
		}
		s.flush()
	}
}

// shutdown adopts connections whose join is still queued so that every
// writer gets its queue closed, then removes all sessions.
func (s *Server) shutdown() {
	for {
		select {
		case ev := <-s.events:
			if ev.kind == evJoin {
				s.addSession(ev.sess)
			}
			continue
		default:
		}
		break
	}
	for _, sess := range s.sessions {
		s.removeSession(sess)
	}
}

func (s *Server) handleEvent(ev event) {
	sess := ev.sess
	switch ev.kind {
	case evJoin:
		s.addSession(sess)
		s.log.Debug().Int32("session", sess.ID).Str("remote", remoteAddr(sess)).Msg("connection accepted")
	case evData:
		if s.sessions[sess.ID] != sess {
			return
		}
		if err := s.receive(sess, ev.data); err != nil {
			s.log.Warn().Err(err).Str("player", sess.name()).Int32("session", sess.ID).Msg("protocol violation")
			s.closeSession(sess)
		}
	case evLeave:
		if s.sessions[sess.ID] == sess {
			s.closeSession(sess)
		}
	case evSaved:
		s.finishSave(sess, ev.err)
	}
}

func (s *Server) addSession(sess *Session) {
	s.sessions[sess.ID] = sess
}

// closeSession marks sess for removal at the next flush, after its queued
// packets have been handed to the writer.
func (s *Server) closeSession(sess *Session) {
	sess.closing = true
}

func (s *Server) removeSession(sess *Session) {
	if s.sessions[sess.ID] != sess {
		return
	}
	s.flushSession(sess)
	delete(s.sessions, sess.ID)
	if sess.out != nil {
		close(sess.out)
		sess.out = nil
	}
	if sess.LoggedIn {
		sess.LoggedIn = false
		s.broadcastDestroyEntity(sess.ID)
		s.broadcastChat(chat.Left(sess.Nick))
		s.log.Info().Str("player", sess.Nick).Msg("player disconnected")
	}
}

// flush hands every session's queued packets to its writer and removes
// sessions marked for closing.
func (s *Server) flush() {
	for _, sess := range s.sessions {
		if sess.closing {
			s.removeSession(sess)
		}
	}
	for _, sess := range s.sessions {
		s.flushSession(sess)
	}
}

func (s *Server) flushSession(sess *Session) {
	if sess.out == nil || sess.pending.Len() == 0 {
		return
	}
	pkt := append([]byte(nil), sess.pending.Bytes()...)
	select {
	case sess.out <- pkt:
		sess.pending.Reset()
	default:
		s.log.Warn().Str("player", sess.name()).Msg("send queue full, dropping session")
		sess.pending.Reset()
		sess.closing = true
	}
}

func (s *Server) stepLiquids() {
	for _, p := range s.liquids.Step() {
		if c, ok := s.world.GetBlock(p.X, p.Y, p.Z); ok {
			s.broadcastBlockChange(p.X, p.Y, p.Z, c)
		}
	}
}

func (s *Server) loggedInCount() int {
	n := 0
	for _, sess := range s.sessions {
		if sess.LoggedIn {
			n++
		}
	}
	return n
}

func remoteAddr(sess *Session) string {
	if sess.conn == nil {
		return ""
	}
	return sess.conn.RemoteAddr().String()
}
