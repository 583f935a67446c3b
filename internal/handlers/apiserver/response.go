package apiserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"filmorate/internal/apperrors"
	"filmorate/internal/logger"
	"filmorate/internal/middleware"
)

// maxBodyBytes 限制请求体大小。
const maxBodyBytes = 1 << 20

// ErrorResponse 是 API 错误响应的通用结构体。
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSONResponse 是一个辅助函数，用于发送 JSON 格式的响应。
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// 头部已经发出，只能记录
			logger.Warn("failed to encode JSON response", "error", err)
		}
	}
}

// writeJSONError 按错误种类映射状态码并写出错误体。
// 状态码只在这里决定，核心层只返回 apperrors.Kind。
func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(err, "internal server error")
	}

	status := statusFor(appErr.Kind)
	message := appErr.Message
	if status == http.StatusInternalServerError {
		requestID, _ := middleware.GetRequestIDFromContext(r.Context())
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "requestId", requestID, "error", err)
		message = "internal server error"
	}

	writeJSONResponse(w, status, ErrorResponse{
		Error:   message,
		Code:    appErr.Kind.String(),
		Details: appErr.Details,
	})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindInvalidArgument:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pathID 从路由变量中解析一个正整数 ID。
func pathID(r *http.Request, name string) (uint, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, apperrors.InvalidArgument("missing path parameter %s", name)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidArgument("invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

// decodeJSON 解码请求体，空请求体和多余内容都视为无效请求。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidArgument("request body is empty")
		}
		return apperrors.Wrap(err, apperrors.KindInvalidArgument, "invalid request body")
	}
	if dec.More() {
		return apperrors.InvalidArgument("request body must contain a single JSON object")
	}
	return nil
}
