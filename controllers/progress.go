package controllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"sareeapi/pkg/logger"
	"sareeapi/session"
	"sareeapi/workflow"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type progressClient struct {
	conn *websocket.Conn
	send chan []byte
}

// ProgressHub fans workflow events out to the websocket subscribers of each session.
type ProgressHub struct {
	mu      sync.RWMutex
	clients map[string]map[*progressClient]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{clients: make(map[string]map[*progressClient]struct{})}
}

// Publish never blocks; a subscriber that cannot keep up misses events.
func (h *ProgressHub) Publish(sessionID string, event workflow.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	subscribers := h.clients[sessionID]
	if len(subscribers) == 0 {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode progress event", err)
		return
	}
	for c := range subscribers {
		select {
		case c.send <- data:
		default:
			logger.Warn("Dropping progress event for slow subscriber", logger.Fields{"session_id": sessionID})
		}
	}
}

func (h *ProgressHub) register(sessionID string, c *progressClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[*progressClient]struct{})
	}
	h.clients[sessionID][c] = struct{}{}
}

func (h *ProgressHub) unregister(sessionID string, c *progressClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[sessionID][c]; !ok {
		return
	}
	delete(h.clients[sessionID], c)
	if len(h.clients[sessionID]) == 0 {
		delete(h.clients, sessionID)
	}
	close(c.send)
}

func (h *ProgressHub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

type ProgressController struct {
	Hub *ProgressHub
}

func (controller *ProgressController) ProgressRoutes(g *echo.Group) {
	g.GET("/progress", controller.Stream)
}

func (controller *ProgressController) Stream(c echo.Context) error {
	s := c.Get("session").(*session.Session)
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Failed to upgrade progress stream", logger.Fields{"error": err.Error()})
		return nil
	}
	client := &progressClient{conn: conn, send: make(chan []byte, sendBuffer)}
	controller.Hub.register(s.ID, client)

	go controller.writePump(client)
	controller.readPump(s.ID, client)
	return nil
}

// readPump only watches for the peer going away; clients send nothing.
func (controller *ProgressController) readPump(sessionID string, c *progressClient) {
	defer func() {
		controller.Hub.unregister(sessionID, c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Progress stream closed", logger.Fields{"session_id": sessionID, "error": err.Error()})
			}
			return
		}
	}
}

func (controller *ProgressController) writePump(c *progressClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
