package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// NewUpgrader accepts any origin when origins is empty, otherwise only
// requests without an Origin header or with one from the list.
func NewUpgrader(origins []string) *websocket.Upgrader {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// TopicFunc picks the topic a connection subscribes to. An empty topic
// receives every event.
type TopicFunc func(c *gin.Context) (topic string, ok bool)

// AllTopics subscribes to the whole feed.
func AllTopics(*gin.Context) (string, bool) {
	return "", true
}

// ParamTopic builds a topic from the UUID in path parameter param.
func ParamTopic(param string, topic func(id string) string) TopicFunc {
	return func(c *gin.Context) (string, bool) {
		id, err := uuid.Parse(c.Param(param))
		if err != nil {
			return "", false
		}
		return topic(id.String()), true
	}
}

func Handler(hub *Hub, upgrader *websocket.Upgrader, topicOf TopicFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		topic, ok := topicOf(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid subscription id"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		cl := &client{
			hub:   hub,
			conn:  conn,
			send:  make(chan []byte, sendBufferSize),
			topic: topic,
		}
		if !hub.attach(cl) {
			conn.Close()
			return
		}

		go cl.writePump()
		cl.readPump()
	}
}
