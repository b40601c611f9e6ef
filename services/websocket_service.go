package services

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"smartapp-notes/smartapp/broker"
	"smartapp-notes/smartapp/logger"
	"smartapp-notes/smartapp/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

type WebSocketServiceInterface interface {
	broker.Publisher
	Start()
	Stop()
	HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID)
	ClientCount(userID uuid.UUID) int
}

// Client is one browser connection belonging to a user.
type Client struct {
	ID     string
	UserID string
	Hub    *WebSocketService
	Conn   *websocket.Conn
	Send   chan []byte
}

type delivery struct {
	userID string
	data   []byte
}

// WebSocketService is a hub that pushes dispatched events to the sockets of the
// user who caused them. It doubles as a broker.Publisher for the outbox dispatcher.
type WebSocketService struct {
	clients      map[string]*Client
	deliver      chan delivery
	clientsMutex sync.RWMutex

	upgrader websocket.Upgrader
	log      *logger.Logger

	runMutex  sync.Mutex
	isRunning bool
	stopChan  chan struct{}
}

func NewWebSocketService(allowedOrigins []string, log *logger.Logger) *WebSocketService {
	ws := &WebSocketService{
		clients: make(map[string]*Client),
		deliver: make(chan delivery, 256),
		log:     logger.OrNop(log).WithComponent("websocket"),
	}
	ws.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return ws
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		// same-origin pages are always allowed
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
}

func (ws *WebSocketService) Start() {
	ws.runMutex.Lock()
	defer ws.runMutex.Unlock()
	if ws.isRunning {
		return
	}
	ws.isRunning = true
	ws.stopChan = make(chan struct{})
	go ws.run(ws.stopChan)
	ws.log.Info("websocket hub started")
}

func (ws *WebSocketService) Stop() {
	ws.runMutex.Lock()
	defer ws.runMutex.Unlock()
	if !ws.isRunning {
		return
	}
	ws.isRunning = false
	close(ws.stopChan)

	ws.clientsMutex.Lock()
	for id, client := range ws.clients {
		if client.Conn != nil {
			client.Conn.Close()
		}
		close(client.Send)
		delete(ws.clients, id)
	}
	ws.clientsMutex.Unlock()

	ws.log.Info("websocket hub stopped")
}

func (ws *WebSocketService) run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case d := <-ws.deliver:
			ws.fanOut(d)
		}
	}
}

func (ws *WebSocketService) addClient(client *Client) {
	ws.clientsMutex.Lock()
	ws.clients[client.ID] = client
	ws.clientsMutex.Unlock()
	ws.log.Debugw("client connected", "client_id", client.ID, "user_id", client.UserID)
}

func (ws *WebSocketService) removeClient(id string) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()
	if client, ok := ws.clients[id]; ok {
		delete(ws.clients, id)
		close(client.Send)
		ws.log.Debugw("client disconnected", "client_id", id)
	}
}

func (ws *WebSocketService) fanOut(d delivery) {
	ws.clientsMutex.Lock()
	defer ws.clientsMutex.Unlock()
	for id, client := range ws.clients {
		if client.UserID != d.userID {
			continue
		}
		select {
		case client.Send <- d.data:
		default:
			ws.log.Warnw("client send buffer full, dropping client", "client_id", id)
			close(client.Send)
			delete(ws.clients, id)
		}
	}
}

// Publish wraps an outbox message in the client envelope and queues it for the actor's sockets.
func (ws *WebSocketService) Publish(msg broker.Message) error {
	var envelope struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		return err
	}

	out := models.NewStandardMessage(models.EventMessage, envelope.Type, envelope.Payload).WithEntity(msg.Entity)
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}

	select {
	case ws.deliver <- delivery{userID: msg.ActorID, data: data}:
	default:
		ws.log.Warnw("websocket delivery queue full, dropping event", "event", envelope.Type)
	}
	return nil
}

func (ws *WebSocketService) ClientCount(userID uuid.UUID) int {
	ws.clientsMutex.RLock()
	defer ws.clientsMutex.RUnlock()
	n := 0
	for _, c := range ws.clients {
		if c.UserID == userID.String() {
			n++
		}
	}
	return n
}

// HandleConnection upgrades an authenticated request and serves it until the peer goes away.
func (ws *WebSocketService) HandleConnection(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: userID.String(),
		Hub:    ws,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}
	ws.addClient(client)

	go client.writePump()
	go client.readPump()
}

// readPump only services control frames; clients do not send commands.
func (c *Client) readPump() {
	defer func() {
		c.Hub.removeClient(c.ID)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
