package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"filmorate/internal/config"
	"filmorate/internal/logger"
)

// Client is a middleman between the websocket connection and the hub.
// 活动流是单向的：客户端发来的消息只用于保持连接，内容被丢弃。
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// UserID 是订阅活动的用户。
	UserID uint
}

// readPump drains the connection so that pong and close frames are processed.
func (c *Client) readPump(wsCfg config.WebSocketConfig) {
	defer func() {
		c.hub.unsubscribe(c)
		c.conn.Close()
	}()
	pongWait := time.Duration(wsCfg.PongWaitSeconds) * time.Second
	c.conn.SetReadLimit(int64(wsCfg.MaxMessageSizeBytes))
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket closed unexpectedly", "userId", c.UserID, "error", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump(wsCfg config.WebSocketConfig) {
	writeWait := time.Duration(wsCfg.WriteWaitSeconds) * time.Second
	ticker := time.NewTicker(time.Duration(wsCfg.PingPeriodSeconds) * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub 关闭了发送通道
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 每个事件单独一帧，客户端可以直接按 JSON 解析
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

// ServeWs upgrades the request and subscribes the connection to userID's activity.
func ServeWs(hub *Hub, userID uint, w http.ResponseWriter, r *http.Request, wsCfg config.WebSocketConfig) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已经写回了错误响应
		logger.Warn("websocket upgrade failed", "userId", userID, "error", err)
		return
	}

	bufferSize := wsCfg.SendBufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}
	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, bufferSize),
		UserID: userID,
	}
	if !hub.subscribe(client) {
		logger.Warn("activity hub stopped, rejecting client", "userId", userID)
		conn.Close()
		return
	}

	go client.writePump(wsCfg)
	go client.readPump(wsCfg)

	logger.Info("activity client connected", "userId", userID)
}
