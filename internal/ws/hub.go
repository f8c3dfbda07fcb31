package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

const (
	KindExamEvent       = "exam_event"
	KindSubmissionEvent = "submission_event"
)

// Message is the frame pushed to subscribers.
type Message struct {
	Kind  string      `json:"kind"`
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

func ExamSessionTopic(examSessionID string) string {
	return "exam_session:" + examSessionID
}

func SubmissionTopic(submissionID string) string {
	return "submission:" + submissionID
}

// PublishObserver is told about every message accepted by the hub.
type PublishObserver interface {
	EventPublished(kind string)
}

type outbound struct {
	topic   string
	payload []byte
}

// Hub fans appended events out to websocket subscribers. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan outbound
	count      chan chan int
	done       chan struct{}
	clients    map[*client]struct{}

	log      *zap.Logger
	observer PublishObserver
}

func NewHub(log *zap.Logger, observer PublishObserver) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan outbound, sendBufferSize),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
		log:        log,
		observer:   observer,
	}
}

// Run serves the hub until ctx is done, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			h.drop(c)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case reply := <-h.count:
			reply <- len(h.clients)
		case msg := <-h.broadcast:
			for c := range h.clients {
				if c.topic != "" && c.topic != msg.topic {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					h.log.Warn("dropping slow subscriber", zap.String("topic", c.topic))
					h.drop(c)
				}
			}
		}
	}
}

// attach hands c to the Run goroutine; false once the hub has stopped.
func (h *Hub) attach(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	c.conn.Close()
}

// Publish queues data for subscribers of topic. It never blocks: when the
// queue is full the message is discarded.
func (h *Hub) Publish(kind, topic string, data interface{}) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Message{Kind: kind, Topic: topic, Data: data})
	if err != nil {
		h.log.Error("ws: failed to marshal event", zap.String("kind", kind), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- outbound{topic: topic, payload: payload}:
		if h.observer != nil {
			h.observer.EventPublished(kind)
		}
	default:
		h.log.Warn("ws: event queue full", zap.String("kind", kind), zap.String("topic", topic))
	}
}

// Clients reports the number of connected subscribers.
func (h *Hub) Clients(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
	case <-h.done:
		return 0, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case n := <-reply:
		return n, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

type client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	topic string
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
