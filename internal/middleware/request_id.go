package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey 是用于在 context.Context 中存储值的自定义类型，以避免键冲突。
type contextKey string

// RequestIDKey 是用于在上下文中存储请求ID的键。
const RequestIDKey contextKey = "requestID"

// RequestIDHeader 是携带请求ID的 HTTP 头。
const RequestIDHeader = "X-Request-ID"

// RequestID 为每个请求分配请求ID，并写入上下文和响应头。
// 客户端已经带上 X-Request-ID 时沿用它的值。
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestIDFromContext 从上下文中获取请求ID。
// 如果请求ID不存在，返回空字符串和false。
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok
}
