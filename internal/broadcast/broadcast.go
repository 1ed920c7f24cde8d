// Package broadcast fans committed GameEvents out to any number of
// connected WebSocket viewers -- a live dashboard for the match currently
// being tailed. Adapted from the teacher's Client/Broker pair: the same
// ping/pong keepalive and write-deadline handling, generalized from
// broadcasting binary vehicle-state diffs to broadcasting GameEvent JSON.
package broadcast

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ilsubyeega/fgtail/internal/events"
	"github.com/ilsubyeega/fgtail/internal/logging"
	"github.com/ilsubyeega/fgtail/internal/parser"
)

const (
	writeWait          = 10 * time.Second
	pongWaitMultiplier = 2
)

var localHosts = map[string]struct{}{
	"127.0.0.1": {},
	"localhost": {},
	"::1":       {},
}

type envelope struct {
	Kind      events.Kind     `json:"kind"`
	Timestamp *string         `json:"timestamp,omitempty"`
	Event     json.RawMessage `json:"event"`
}

// Client is a single connected viewer.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
	log  *logging.Logger
}

// Broker fans out committed events to every registered Client.
type Broker struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	upgrader websocket.Upgrader

	maxPayloadBytes int64
	maxClients      int
	pendingClients  int
	pingInterval    time.Duration

	log *logging.Logger
}

// Options configures a Broker.
type Options struct {
	AllowedOrigins  []string
	MaxPayloadBytes int64
	MaxClients      int
	PingInterval    time.Duration
	Logger          *logging.Logger
}

// New builds a Broker ready to serve WebSocket upgrades.
func New(opts Options) *Broker {
	logger := opts.Logger
	if logger == nil {
		logger = logging.L()
	}
	pingInterval := opts.PingInterval
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Broker{
		clients:         make(map[*Client]bool),
		upgrader:        websocket.Upgrader{CheckOrigin: buildOriginChecker(logger, opts.AllowedOrigins)},
		maxPayloadBytes: opts.MaxPayloadBytes,
		maxClients:      opts.MaxClients,
		pingInterval:    pingInterval,
		log:             logger,
	}
}

// ClientCount reports the number of currently connected viewers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Publish fans out a committed event to every connected viewer. A
// disconnected viewer simply misses events published while it was away.
func (b *Broker) Publish(emitted parser.Emitted) {
	payload, err := json.Marshal(emitted.Event)
	if err != nil {
		b.log.Warn("failed to marshal event for broadcast", logging.Error(err), logging.String("kind", string(emitted.Event.EventKind())))
		return
	}
	var ts *string
	if emitted.Timestamp != nil {
		formatted := emitted.Timestamp.Format(time.RFC3339Nano)
		ts = &formatted
	}
	msg, err := json.Marshal(envelope{Kind: emitted.Event.EventKind(), Timestamp: ts, Event: payload})
	if err != nil {
		b.log.Warn("failed to marshal envelope for broadcast", logging.Error(err))
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client.send <- msg:
		default:
			b.log.Warn("dropping slow client: send buffer full", logging.String("client_id", client.id))
		}
	}
}

func (b *Broker) register(client *Client) {
	b.mu.Lock()
	b.clients[client] = true
	b.mu.Unlock()
}

func (b *Broker) deregister(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client.send)
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams every future
// published event to the new viewer until it disconnects.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, baseLogger, _ := logging.WithTrace(r.Context(), logging.LoggerFromContext(r.Context()), logging.TraceIDFromContext(r.Context()))
	reqLogger := baseLogger.With(logging.String("remote_addr", r.RemoteAddr))
	r = r.WithContext(logging.ContextWithLogger(ctx, reqLogger))

	if b.maxClients > 0 {
		b.mu.Lock()
		if len(b.clients)+b.pendingClients >= b.maxClients {
			b.mu.Unlock()
			reqLogger.Warn("refusing websocket connection: client limit reached", logging.Int("max_clients", b.maxClients))
			http.Error(w, "service unavailable: client limit reached", http.StatusServiceUnavailable)
			return
		}
		b.pendingClients++
		b.mu.Unlock()
	}

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if b.maxClients > 0 {
			b.mu.Lock()
			if b.pendingClients > 0 {
				b.pendingClients--
			}
			b.mu.Unlock()
		}
		reqLogger.Error("websocket upgrade failed", logging.Error(err))
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, 256), id: r.RemoteAddr, log: reqLogger}

	b.mu.Lock()
	if b.maxClients > 0 && b.pendingClients > 0 {
		b.pendingClients--
	}
	b.mu.Unlock()
	b.register(client)

	if b.maxPayloadBytes > 0 {
		client.conn.SetReadLimit(b.maxPayloadBytes)
	}

	waitDuration := time.Duration(pongWaitMultiplier) * b.pingInterval
	if err := client.conn.SetReadDeadline(time.Now().Add(waitDuration)); err != nil {
		client.log.Error("failed to set initial read deadline", logging.Error(err))
		_ = client.conn.Close()
		return
	}
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(waitDuration))
	})

	go b.readLoop(client, waitDuration)
	go b.writeLoop(client)
}

// readLoop only exists to detect disconnects and keep the read deadline
// alive via pong frames; viewers never send meaningful application data.
func (b *Broker) readLoop(client *Client, waitDuration time.Duration) {
	defer func() {
		b.deregister(client)
		_ = client.conn.Close()
	}()
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			client.log.Debug("viewer disconnected", logging.Error(err))
			return
		}
		if err := client.conn.SetReadDeadline(time.Now().Add(waitDuration)); err != nil {
			client.log.Error("failed to extend read deadline", logging.Error(err))
			return
		}
	}
}

func (b *Broker) writeLoop(client *Client) {
	pingTicker := time.NewTicker(b.pingInterval)
	defer func() {
		pingTicker.Stop()
		_ = client.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				client.log.Error("failed to set write deadline", logging.Error(err))
				b.deregister(client)
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				client.log.Error("write error", logging.Error(err))
				b.deregister(client)
				return
			}
		case <-pingTicker.C:
			if err := client.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				client.log.Warn("ping failure", logging.Error(err))
				b.deregister(client)
				return
			}
		}
	}
}

func buildOriginChecker(logger *logging.Logger, allowlist []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, origin := range allowlist {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			logger.Warn("ignoring invalid allowed origin", logging.String("origin", origin), logging.Error(err))
			continue
		}
		allowed[strings.ToLower(u.Scheme+"://"+u.Host)] = struct{}{}
	}

	return func(r *http.Request) bool {
		originHeader := r.Header.Get("Origin")
		if originHeader == "" {
			return false
		}
		originURL, err := url.Parse(originHeader)
		if err != nil || originURL.Host == "" {
			logger.Warn("rejecting request with invalid origin", logging.String("origin", originHeader), logging.Error(err))
			return false
		}
		if _, ok := localHosts[originURL.Hostname()]; ok {
			return true
		}
		if _, ok := allowed[strings.ToLower(originURL.Scheme+"://"+originURL.Host)]; ok {
			return true
		}
		logger.Warn("rejecting request from disallowed origin", logging.String("origin", originHeader))
		return false
	}
}
