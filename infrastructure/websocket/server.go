package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hive-chat/auth"
	"hive-chat/runtime"
	"hive-chat/sink"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
)

type Config struct {
	BufferSize     int
	ReadLimit      int64
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	AllowedOrigins []string
}

// Server upgrades authenticated requests and runs one Client per connection.
type Server struct {
	ctx        context.Context
	log        *slog.Logger
	tokens     auth.Tokens
	presence   Presence
	dispatcher *Dispatcher
	upgrader   gorilla.Upgrader
	config     Config
	wg         sync.WaitGroup
}

// NewServer binds every connection to ctx so that shutdown ends all sessions.
func NewServer(ctx context.Context, log *slog.Logger, tokens auth.Tokens, presence Presence, dispatcher *Dispatcher, config Config) *Server {
	origins := normalizeOrigins(config.AllowedOrigins)
	return &Server{
		ctx:        ctx,
		log:        log,
		tokens:     tokens,
		presence:   presence,
		dispatcher: dispatcher,
		config:     config,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(origins, r.Header.Get("Origin"))
			},
		},
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, err := auth.Authenticate(s.tokens, r)
	if err != nil {
		s.log.Debug("Rejected connection", "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	connectionSink := sink.NewConnectionSink(s.config.BufferSize)
	session := runtime.Session{
		UserID:      claims.UserID,
		TransportID: uuid.NewString(),
		ConnectedAt: time.Now().UTC(),
		Sink:        connectionSink,
	}
	if err = s.presence.Connect(s.ctx, session); err != nil {
		s.log.Error("Connect failed", "user_id", session.UserID, "error", err)
		connectionSink.Close()
		_ = conn.Close()
		return
	}

	client := &Client{
		log:        s.log,
		conn:       conn,
		session:    session,
		sink:       connectionSink,
		dispatcher: s.dispatcher,
		presence:   s.presence,
		config:     s.config,
	}
	s.wg.Add(1)
	defer s.wg.Done()
	go client.writePump()
	client.readPump(auth.WithClaims(s.ctx, claims))
}

// Wait blocks until every session started by ServeHTTP has disconnected.
func (s *Server) Wait() {
	s.wg.Wait()
}

func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// originAllowed accepts any origin when the list is empty or holds "*".
// Requests without an Origin header are not from a browser and pass.
func originAllowed(allowed map[string]struct{}, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	if _, ok := allowed["*"]; ok {
		return true
	}
	normalized, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	_, ok = allowed[normalized]
	return ok
}

func normalizeOrigins(origins []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowed["*"] = struct{}{}
			continue
		}
		if normalized, ok := normalizeOrigin(origin); ok {
			allowed[normalized] = struct{}{}
		}
	}
	return allowed
}

func normalizeOrigin(origin string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), true
}
