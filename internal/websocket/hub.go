package websocket

import (
	"context"

	"filmorate/internal/logger"
	"filmorate/internal/metrics"
)

// delivery is one encoded event and the users it is addressed to.
type delivery struct {
	audience []uint
	payload  []byte
}

// Hub maintains the set of active clients and pushes activity events to them.
// 所有 map 只在 Run 所在的 goroutine 中访问。
type Hub struct {
	// 一个用户可以同时打开多个连接 (多个标签页/设备)
	clients map[uint]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	deliveries chan delivery

	// done 在 Run 返回时关闭，之后的注册/注销不再阻塞
	done chan struct{}
}

// NewHub creates a new Hub. queueSize bounds the pending deliveries.
func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Hub{
		clients:    make(map[uint]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, queueSize),
		done:       make(chan struct{}),
	}
}

// subscribe hands c to the hub loop; false means the hub has stopped.
func (h *Hub) subscribe(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unsubscribe(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Dispatch queues payload for the clients of every user in audience; an empty
// audience reaches every connected client. It never blocks the caller (the
// Kafka consumer): when the queue is full the event is dropped.
func (h *Hub) Dispatch(audience []uint, payload []byte) {
	select {
	case h.deliveries <- delivery{audience: audience, payload: payload}:
	default:
		logger.Warn("hub delivery queue is full, dropping activity event", "audience", len(audience))
		metrics.ActivityDelivered(false)
	}
}

// Run starts the hub loop and returns when ctx is canceled, closing every client.
func (h *Hub) Run(ctx context.Context) {
	logger.Info("websocket hub started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[uint]map[*Client]struct{})
			metrics.SetActivityClients(0)
			logger.Info("websocket hub stopped")
			return

		case client := <-h.register:
			conns, ok := h.clients[client.UserID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.UserID] = conns
			}
			conns[client] = struct{}{}
			metrics.SetActivityClients(h.count())
			logger.Debug("client registered", "userId", client.UserID, "connections", len(conns))

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.deliveries:
			if len(d.audience) == 0 {
				for _, conns := range h.clients {
					h.push(conns, d.payload)
				}
				continue
			}
			for _, userID := range uniq(d.audience) {
				if conns, ok := h.clients[userID]; ok {
					h.push(conns, d.payload)
				}
			}
		}
	}
}

// push 非阻塞写入；发送缓冲已满的客户端被视为过慢并断开。
func (h *Hub) push(conns map[*Client]struct{}, payload []byte) {
	for client := range conns {
		select {
		case client.send <- payload:
			metrics.ActivityDelivered(true)
		default:
			logger.Warn("client send buffer full, disconnecting", "userId", client.UserID)
			metrics.ActivityDelivered(false)
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
	metrics.SetActivityClients(h.count())
	logger.Debug("client unregistered", "userId", client.UserID)
}

func (h *Hub) count() int {
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}

func uniq(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
