// Package gateway terminates websocket connections and routes decoded
// client envelopes into the lobby's booth actors.
package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"spinroom/apps/server/internal/auth"
	"spinroom/apps/server/internal/booth"
	"spinroom/apps/server/internal/codec"
	"spinroom/apps/server/internal/lobby"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection represents a WebSocket client connection
type Connection struct {
	ID       string
	UserID   uint64
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	// Current booth association
	Booth *booth.Booth
}

// Gateway manages WebSocket connections
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	userConns   map[uint64]*Connection // userID -> connection
	nextConnID  uint64

	lobby *lobby.Lobby
	auth  auth.Service
}

// New creates a new Gateway instance
func New(lby *lobby.Lobby, authService auth.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		userConns:   make(map[uint64]*Connection),
		lobby:       lby,
		auth:        authService,
	}
}

// RegisterRoutes wires the websocket endpoint and the content catalog.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", g.HandleWebSocket)
	mux.HandleFunc("/api/catalog", g.handleCatalog)
}

// HandleWebSocket authenticates via the token query parameter, upgrades,
// and starts the connection pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, username, ok := g.auth.ResolveSession(token)
	if !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)

	// One connection per user: a newer login displaces the old socket.
	if prev := g.userConns[userID]; prev != nil {
		delete(g.connections, prev.ID)
		prev.Conn.Close()
	}

	c := &Connection{
		ID:       connID,
		UserID:   userID,
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
	g.connections[connID] = c
	g.userConns[userID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (user=%d %s), total: %d", connID, userID, username, len(g.connections))

	go c.readPump()
	go c.writePump()
}

func (g *Gateway) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"scenarios": g.lobby.Scenarios(),
		"profiles":  g.lobby.Profiles(),
	})
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}

		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.DecodeClient(data)
	if err != nil {
		log.Printf("[Gateway] Failed to decode: %v", err)
		c.sendError("bad_envelope", "invalid message format")
		return
	}

	log.Printf("[Gateway] Received from user %d: type=%s", c.UserID, env.Type)

	switch env.Type {
	case codec.ClientStart:
		c.handleStart(env)
	case codec.ClientAnswer:
		c.handleAnswer(env)
	case codec.ClientLeave:
		c.handleLeave()
	default:
		c.sendError("unknown_type", fmt.Sprintf("unknown message type %q", env.Type))
	}
}

func (c *Connection) handleStart(env codec.ClientEnvelope) {
	b, err := c.Gateway.lobby.StartInterview(c.UserID, env.Scenario, env.Profile, c.Gateway.broadcastToUser)
	if err != nil {
		c.sendError("start_failed", err.Error())
		return
	}
	c.Booth = b

	if err := b.SubmitEvent(booth.Event{Type: booth.EventStart}); err != nil {
		c.sendError("start_failed", err.Error())
		return
	}
	log.Printf("[Gateway] User %d started interview in booth %s", c.UserID, b.ID)
}

func (c *Connection) handleAnswer(env codec.ClientEnvelope) {
	if c.Booth == nil {
		c.sendError("no_interview", "no interview in progress")
		return
	}
	if env.Answer == nil {
		c.sendError("bad_envelope", "answer payload missing")
		return
	}

	err := c.Booth.SubmitEvent(booth.Event{
		Type:   booth.EventAnswer,
		Answer: *env.Answer,
	})
	if err != nil {
		c.sendError("answer_rejected", err.Error())
	}
}

func (c *Connection) handleLeave() {
	if c.Booth == nil {
		return
	}
	c.Gateway.lobby.LeaveInterview(c.UserID)
	c.Booth = nil
}

func (c *Connection) sendError(code, msg string) {
	env := codec.ServerEnvelope{
		Type:  codec.ServerError,
		Error: &codec.ErrorView{Code: code, Message: msg},
	}
	data, err := codec.Encode(env)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.connections[c.ID] != c {
		return // displaced by a newer socket
	}
	delete(g.connections, c.ID)
	delete(g.userConns, c.UserID)
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}

// broadcastToUser sends a message to a specific user
func (g *Gateway) broadcastToUser(userID uint64, data []byte) {
	g.mu.RLock()
	c := g.userConns[userID]
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
			// Drop if buffer full
		}
	}
}
