// Package websocket реализует живой чат: один глобальный зал,
// широковещательная рассылка без персистентности, плюс адресные пуши
// о новых личных сообщениях подключенным пользователям.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hekayat-server/internal/model"
)

// Event - конверт исходящего события.
type Event struct {
	// Type: "chat" - сообщение зала, "message" - пуш о личном сообщении.
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type envelope struct {
	// target - username получателя; пустая строка означает рассылку всем.
	target string
	data   []byte
}

// Hub управляет WebSocket-соединениями чата.
type Hub struct {
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	logger     *zap.Logger
	mu         sync.RWMutex
}

// Client представляет подключенного пользователя чата.
type Client struct {
	ID       uuid.UUID
	Username string
	Conn     *websocket.Conn
	hub      *Hub
	Send     chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Проверку источников берет на себя CORS-слой перед апгрейдом
	},
}

// NewHub создает хаб чата.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope),
		logger:     logger.Named("ChatHub"),
	}
}

// Start запускает цикл хаба в отдельной горутине.
func (h *Hub) Start() {
	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("Chat client connected", zap.String("username", client.Username))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				close(client.Send)
				delete(h.clients, client.ID)
				h.logger.Info("Chat client disconnected", zap.String("username", client.Username))
			}
			h.mu.Unlock()

		case env := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				if env.target != "" && client.Username != env.target {
					continue
				}
				select {
				case client.Send <- env.data:
				default:
					// Медленный клиент выбрасывается, чтобы не стопорить зал.
					close(client.Send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastChat рассылает сообщение зала всем подключенным.
func (h *Hub) BroadcastChat(msg model.ChatMessage) {
	h.send("", Event{Type: "chat", Payload: msg})
}

// NotifyUser отправляет адресное событие подключенному пользователю.
// Офлайн-получатель пуш просто не получает - сообщение ждет его в сторе.
func (h *Hub) NotifyUser(username string, event string, payload interface{}) {
	h.send(username, Event{Type: event, Payload: payload})
}

func (h *Hub) send(target string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal chat event", zap.Error(err))
		return
	}
	h.broadcast <- envelope{target: target, data: data}
}

// Handler апгрейдит соединение и регистрирует клиента в зале.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			http.Error(w, "username is required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Error("Failed to upgrade connection", zap.Error(err))
			return
		}

		client := &Client{
			ID:       uuid.New(),
			Username: username,
			Conn:     conn,
			hub:      h,
			Send:     make(chan []byte, 256),
		}
		h.register <- client

		go client.readPump()
		go client.writePump()
	})
}

// readPump читает входящие сообщения зала и рассылает их всем.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(2048)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Chat read error", zap.String("username", c.Username), zap.Error(err))
			}
			break
		}

		var incoming struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &incoming); err != nil || incoming.Text == "" {
			continue
		}

		c.hub.BroadcastChat(model.ChatMessage{
			ID:        uuid.New().String(),
			UserName:  c.Username,
			Text:      incoming.Text,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// writePump отправляет события клиенту и держит соединение пингами.
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
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

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
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
