package activityserver

import (
	"net/http"
	"strconv"

	"filmorate/internal/config"
	"filmorate/internal/logger"
	ws "filmorate/internal/websocket"
)

// WebSocketHandler 负责处理活动推送的 WebSocket 连接请求。
type WebSocketHandler struct {
	hub   *ws.Hub
	wsCfg config.WebSocketConfig
}

// NewWebSocketHandler 创建一个新的 WebSocketHandler 实例。
func NewWebSocketHandler(hub *ws.Hub, wsCfg config.WebSocketConfig) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, wsCfg: wsCfg}
}

// ServeWS 将 HTTP 连接升级为 WebSocket 连接，并订阅 userId 对应用户的动态。
// 不带 userId 的连接只接收广播事件。
func (h *WebSocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r.URL.Query().Get("userId"))
	if err != nil {
		http.Error(w, "invalid userId", http.StatusBadRequest)
		return
	}
	if userID == 0 {
		logger.Debug("anonymous activity subscriber connecting", "remote", r.RemoteAddr)
	}

	ws.ServeWs(h.hub, userID, w, r, h.wsCfg)
}

func parseUserID(raw string) (uint, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
