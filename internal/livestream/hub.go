// Package livestream чат прямого эфира по WebSocket и голосование за песни.
package livestream

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/magabrotheeeer/coffeehouse/internal/lib/sl"
	"github.com/magabrotheeeer/coffeehouse/internal/models"
)

// AnonymousName имя автора сообщений без входа.
const AnonymousName = "Anonymous User"

// Типы событий, рассылаемых клиентам.
const (
	EventChat  = "chat"
	EventVotes = "votes"
)

const (
	maxMessageLen = 500
	sendBuffer    = 16
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = pongWait * 9 / 10
)

// ChatMessage сообщение чата.
type ChatMessage struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Likes     int       `json:"likes"`
	Timestamp time.Time `json:"timestamp"`
}

// Event событие, отправляемое всем подключённым клиентам.
type Event struct {
	Type    string        `json:"type"`
	Message *ChatMessage  `json:"message,omitempty"`
	Songs   []models.Song `json:"songs,omitempty"`
}

// Client одно WebSocket-подключение к эфиру.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	name string
}

// Hub хранит подключённых клиентов и рассылает им события.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	log        *slog.Logger
	mu         sync.RWMutex
}

// NewHub создаёт hub. Для работы нужно запустить Run.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run основной цикл hub, работает до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// медленный клиент пропускает событие
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Clients возвращает число подключённых клиентов.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast рассылает событие всем клиентам.
func (h *Hub) Broadcast(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal live event", sl.Err(err))
		return
	}
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Serve регистрирует подключение и обслуживает его до закрытия.
// name имя автора сообщений; пустое заменяется на AnonymousName.
func (h *Hub) Serve(conn *websocket.Conn, name string) {
	if strings.TrimSpace(name) == "" {
		name = AnonymousName
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), name: name}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

// NewChatMessage собирает сообщение чата. ok=false для пустого или слишком длинного текста.
func NewChatMessage(user, text string) (ChatMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxMessageLen {
		return ChatMessage{}, false
	}
	return ChatMessage{
		ID:        ulid.Make().String(),
		User:      user,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}, true
}

type incoming struct {
	Text string `json:"text"`
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(4 * maxMessageLen)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in incoming
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("live connection closed", sl.Err(err))
			}
			return
		}
		msg, ok := NewChatMessage(c.name, in.Text)
		if !ok {
			continue
		}
		c.hub.Broadcast(Event{Type: EventChat, Message: &msg})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
