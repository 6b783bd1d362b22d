package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bcibizz-gateway/internal/middleware"
	"bcibizz-gateway/internal/models"
	"bcibizz-gateway/internal/render"
	"bcibizz-gateway/internal/services"
)

const (
	MessagePing             = "PING"
	MessagePong             = "PONG"
	MessageBalanceUpdate    = "BALANCE_UPDATE"
	MessageRefreshDashboard = "REFRESH_DASHBOARD"
	MessageDashboardUpdate  = "DASHBOARD_UPDATE"
	MessageError            = "ERROR"

	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	aggregator *services.Aggregator
	hub        *WebSocketHub
	logger     *zap.Logger
	now        func() time.Time
}

// WebSocketHub tracks the live connections of every session. A session may
// have several shells open at once.
type WebSocketHub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	logger     *zap.Logger
}

type Client struct {
	SessionID string
	Conn      *websocket.Conn

	mu sync.Mutex
}

type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"-"`
	Data      any    `json:"data,omitempty"`
}

// Send serializes writes to the connection.
func (c *Client) Send(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteJSON(msg)
}

func NewWebSocketHub(logger *zap.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func NewWebSocketHandler(hub *WebSocketHub, aggregator *services.Aggregator, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		aggregator: aggregator,
		hub:        hub,
		logger:     logger,
		now:        func() time.Time { return time.Now().In(render.Lisbon) },
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	api := middleware.Client(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade to websocket", zap.Error(err))
		return
	}

	client := &Client{
		SessionID: sessionID,
		Conn:      conn,
	}

	if !h.hub.add(client) {
		conn.Close()
		return
	}

	defer func() {
		h.hub.remove(client)
		conn.Close()
	}()

	// The request context ends with the handler; fetches use a detached one.
	ctx := context.WithoutCancel(c.Request.Context())

	h.sendBalance(ctx, client, api)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read failed", zap.String("session_id", sessionID), zap.Error(err))
			}
			break
		}

		h.handleMessage(ctx, client, api, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, client *Client, api *services.APIClient, msg *Message) {
	switch msg.Type {
	case MessagePing:
		h.send(client, &Message{
			Type: MessagePong,
			Data: gin.H{"timestamp": time.Now().Unix()},
		})
	case MessageRefreshDashboard:
		period := render.PeriodMonthly
		if p, ok := msg.Data.(string); ok {
			period = render.ParsePeriod(p)
		}
		state := h.aggregator.LoadAll(ctx, api)
		h.send(client, &Message{
			Type: MessageDashboardUpdate,
			Data: render.Dashboard(state, period, h.now()),
		})
	default:
		h.send(client, &Message{
			Type: MessageError,
			Data: gin.H{"message": "unknown message type"},
		})
	}
}

func (h *WebSocketHandler) sendBalance(ctx context.Context, client *Client, api *services.APIClient) {
	resp := api.GetUserData(ctx)
	var user models.User
	if err := resp.Decode(&user); err != nil {
		h.logger.Warn("failed to load balance for websocket",
			zap.String("session_id", client.SessionID),
			zap.String("message", resp.Message))
		return
	}

	h.send(client, balanceMessage(client.SessionID, user.Balance.Float64()))
}

func (h *WebSocketHandler) send(client *Client, msg *Message) {
	if err := client.Send(msg); err != nil {
		h.logger.Debug("websocket write failed", zap.String("session_id", client.SessionID), zap.Error(err))
	}
}

// Run dispatches registrations and broadcasts until ctx is done, then closes
// every remaining connection.
func (hub *WebSocketHub) Run(ctx context.Context) {
	for {
		select {
		case client := <-hub.register:
			if hub.clients[client.SessionID] == nil {
				hub.clients[client.SessionID] = make(map[*Client]bool)
			}
			hub.clients[client.SessionID][client] = true
			hub.logger.Debug("websocket client registered", zap.String("session_id", client.SessionID))

		case client := <-hub.unregister:
			if conns, ok := hub.clients[client.SessionID]; ok {
				delete(conns, client)
				if len(conns) == 0 {
					delete(hub.clients, client.SessionID)
				}
				hub.logger.Debug("websocket client unregistered", zap.String("session_id", client.SessionID))
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)

		case <-ctx.Done():
			close(hub.done)
			for _, conns := range hub.clients {
				for client := range conns {
					client.Conn.Close()
				}
			}
			return
		}
	}
}

func (hub *WebSocketHub) add(client *Client) bool {
	select {
	case hub.register <- client:
		return true
	case <-hub.done:
		return false
	}
}

func (hub *WebSocketHub) remove(client *Client) {
	select {
	case hub.unregister <- client:
	case <-hub.done:
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	for client := range hub.clients[message.SessionID] {
		if err := client.Send(message); err != nil {
			hub.logger.Debug("websocket broadcast failed", zap.String("session_id", client.SessionID), zap.Error(err))
		}
	}
}

// BroadcastBalance queues a balance update for every connection of the
// session. It never blocks; updates are dropped when the queue is full.
func (hub *WebSocketHub) BroadcastBalance(sessionID string, balance float64) {
	select {
	case hub.broadcast <- balanceMessage(sessionID, balance):
	default:
		hub.logger.Warn("websocket broadcast queue full", zap.String("session_id", sessionID))
	}
}

func balanceMessage(sessionID string, balance float64) *Message {
	return &Message{
		Type:      MessageBalanceUpdate,
		SessionID: sessionID,
		Data: gin.H{
			"balance":   render.Finite(balance),
			"formatted": render.FormatMoney(balance),
			"timestamp": time.Now().Unix(),
		},
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}
