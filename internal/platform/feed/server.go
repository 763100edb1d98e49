package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/engine"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMsgSize = 512
)

// Config holds configuration for the feed server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8088").
	Address string

	// Path is the websocket endpoint.
	Path string

	// Rules is the game configuration every connection plays with.
	Rules config.Config

	// TickRate is how often each connection's engine is stepped.
	TickRate int

	// MaxClients caps concurrent connections. Zero means unlimited.
	MaxClients int

	// OutboxSize is the per-connection message buffer.
	OutboxSize int

	// Seed seeds every engine when non-zero. Zero seeds from the clock.
	Seed int64

	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:      ":8088",
		Path:         "/ws",
		Rules:        config.DefaultConfig(),
		TickRate:     30,
		MaxClients:   64,
		OutboxSize:   256,
		WriteTimeout: 10 * time.Second,
	}
}

// client is one websocket connection and the engine it drives.
type client struct {
	id     string
	conn   *websocket.Conn
	runner *engine.Runner
	out    *outbox
	seq    uint64
}

// Server serves engine feeds over websockets.
type Server struct {
	config   Config
	store    engine.ProfileStore
	logger   *log.Logger
	upgrader websocket.Upgrader
	clients  *registry
	total    atomic.Int64
	httpSrv  *http.Server
}

// NewServer creates a feed server. store may be nil to play without a profile.
// A nil logger logs to stderr.
func NewServer(cfg Config, store engine.ProfileStore, logger *log.Logger) *Server {
	def := DefaultConfig()
	if cfg.Path == "" {
		cfg.Path = def.Path
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snake3d-feed",
		})
	}
	return &Server{
		config: cfg,
		store:  store,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: newRegistry(),
	}
}

// Handler returns the HTTP handler with the websocket and health endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.serveWS)
	mux.HandleFunc("/healthz", s.serveHealth)
	return mux
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	return s.clients.Count()
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck // Best-effort health response
	json.NewEncoder(w).Encode(map[string]int64{
		"clients": int64(s.clients.Count()),
		"served":  s.total.Load(),
	})
}

func (s *Server) newRunner(id string) *engine.Runner {
	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := []engine.Option{
		engine.WithLogger(s.logger.With("conn", id[:8])),
		engine.WithSeed(seed),
	}
	if s.store != nil {
		opts = append(opts, engine.WithStore(s.store))
	}
	return engine.NewRunner(engine.New(s.config.Rules, opts...), nil)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	id := uuid.NewString()
	c := &client{
		id:     id,
		conn:   conn,
		runner: s.newRunner(id),
		out:    newOutbox(id, s.config.OutboxSize),
	}
	if !s.clients.Add(c, s.config.MaxClients) {
		s.logger.Warn("connection refused, server full", "remote", r.RemoteAddr)
		s.writeAndClose(conn, ErrorMsg{Type: MsgError, Msg: "server full"})
		return
	}
	s.total.Add(1)
	s.logger.Info("client connected", "id", id, "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.out.Close()
		s.clients.Remove(id)
		conn.Close()
		s.logger.Info("client disconnected", "id", id, "dropped", c.out.Dropped())
	}()

	var unsubscribe func()
	c.runner.Do(func(e *engine.Engine) {
		unsubscribe = e.Subscribe(func(ev engine.Event) {
			c.seq++
			data, err := encodeEvent(c.seq, ev)
			if err != nil {
				s.logger.Debug("skipping event", "error", err)
				return
			}
			c.out.Send(data)
		})
	})
	defer c.runner.Do(func(*engine.Engine) { unsubscribe() })

	snap := c.runner.Snapshot()
	s.queue(c, WelcomeMsg{Type: MsgWelcome, ID: id, Size: snap.Size, CellScale: s.config.Rules.Grid.CellScale})
	s.queue(c, SnapshotMsg{Type: MsgSnapshot, Snap: snap})

	go s.writeLoop(c)
	go func() {
		//nolint:errcheck // Returns ctx.Err() on disconnect
		c.runner.Run(ctx, s.config.TickRate)
	}()

	s.readLoop(c)
}

// queue encodes msg and puts it in the client's outbox.
func (s *Server) queue(c *client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("encode failed", "id", c.id, "error", err)
		return
	}
	c.out.Send(data)
}

// readLoop handles client commands until the connection fails.
func (s *Server) readLoop(c *client) {
	c.conn.SetReadLimit(maxMsgSize)
	//nolint:errcheck // Deadline errors surface on the next read
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read error", "id", c.id, "error", err)
			}
			return
		}

		msg, err := decodeClient(data)
		if err != nil {
			s.queue(c, ErrorMsg{Type: MsgError, Msg: err.Error()})
			continue
		}

		var ok bool
		var snap engine.Snapshot
		c.runner.Do(func(e *engine.Engine) {
			ok, err = apply(e, msg)
			if msg.Type == CmdSnapshot {
				snap = e.Snapshot()
			}
		})
		if err != nil {
			s.queue(c, ErrorMsg{Type: MsgError, Msg: err.Error()})
			continue
		}
		if msg.Type == CmdSnapshot {
			s.queue(c, SnapshotMsg{Type: MsgSnapshot, Snap: snap})
		}
		s.queue(c, AckMsg{Type: MsgAck, Cmd: msg.Type, OK: ok})
	}
}

// writeLoop is the only writer on the connection.
func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.out.Done():
			return
		case data := <-c.out.Messages():
			//nolint:errcheck // Deadline errors surface on the write
			c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("write failed", "id", c.id, "error", err)
				c.conn.Close()
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Deadline errors surface on the write
			c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}

func (s *Server) writeAndClose(conn *websocket.Conn, msg any) {
	//nolint:errcheck // Connection is closed either way
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	//nolint:errcheck // Connection is closed either way
	conn.WriteJSON(msg)
	conn.Close()
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting feed server", "address", ln.Addr().String(), "path", s.config.Path)

	errc := make(chan error, 1)
	go func() {
		errc <- s.httpSrv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.httpSrv.Shutdown(shutdownCtx)
	// Hijacked websocket connections are not tracked by http.Server
	for _, c := range s.clients.Snapshot() {
		c.conn.Close()
	}
	return err
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Address
}
