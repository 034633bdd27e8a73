// Package rpc 实现 JSON-RPC 2.0 方法分发、权限判断和 fault 转换.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"tcms/internal/dto"
	"tcms/internal/pkg/auth"
	"tcms/internal/pkg/logger"
	"tcms/internal/rpc/params"
	"tcms/pkg/constants"
)

// HandlerFunc RPC 方法实现, args 为已解析的位置参数
type HandlerFunc func(ctx context.Context, args []params.Value) (interface{}, error)

type method struct {
	name       string
	fn         HandlerFunc
	public     bool
	permission auth.Permission
}

// Option 方法注册选项
type Option func(*method)

// Public 无需登录即可调用
func Public() Option {
	return func(m *method) {
		m.public = true
	}
}

// RequirePermission 调用者角色需要拥有的权限
func RequirePermission(p auth.Permission) Option {
	return func(m *method) {
		m.permission = p
	}
}

// Server 方法表, 注册完成后只读
type Server struct {
	methods map[string]*method
}

func NewServer() *Server {
	return &Server{methods: make(map[string]*method)}
}

// Register 注册方法, 重名时 panic
func (s *Server) Register(name string, fn HandlerFunc, opts ...Option) {
	if _, exists := s.methods[name]; exists {
		panic(fmt.Sprintf("rpc method %s registered twice", name))
	}
	m := &method{name: name, fn: fn}
	for _, opt := range opts {
		opt(m)
	}
	s.methods[name] = m
}

// Methods 已注册的方法名, 按字母序
func (s *Server) Methods() []string {
	names := lo.Keys(s.methods)
	sort.Strings(names)
	return names
}

// Authorize 判断会话能否调用该方法. 未知方法只要求已登录, 由 Call 返回 MethodNotFound
func (s *Server) Authorize(name string, session *dto.SessionInfo) bool {
	m, ok := s.methods[name]
	if ok && m.public {
		return true
	}
	if session == nil {
		return false
	}
	if !ok {
		return true
	}
	return auth.Allow([]string{session.Role}, m.permission)
}

// Decode 解析请求体. 失败时返回可直接写回的错误响应
func (s *Server) Decode(body []byte) (*Request, *Response) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, ErrorResponse(nil, constants.FaultParseError, "Parse error")
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, ErrorResponse(nil, constants.FaultInvalidRequest, "Invalid request: batch requests are not supported")
	}

	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return nil, ErrorResponse(nil, constants.FaultInvalidRequest, "Invalid request: "+err.Error())
	}
	if req.JSONRPC != constants.JSONRPCVersion {
		return nil, ErrorResponse(req.ID, constants.FaultInvalidRequest, "Invalid request: jsonrpc must be \"2.0\"")
	}
	if req.Method == "" {
		return nil, ErrorResponse(req.ID, constants.FaultInvalidRequest, "Invalid request: method is required")
	}
	return &req, nil
}

// Call 执行一次调用, 方法内的 panic 转为 internal error
func (s *Server) Call(ctx context.Context, req *Request) (resp *Response) {
	m, ok := s.methods[req.Method]
	if !ok {
		return ErrorResponse(req.ID, constants.FaultMethodNotFound, "Method not found: "+req.Method)
	}

	args, err := params.Decode(req.Params)
	if err != nil {
		return &Response{ID: req.ID, Error: FaultFromError(req.Method, err)}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("RPC 方法 panic", zap.String("method", req.Method), zap.Any("panic", r), zap.Stack("stack"))
			resp = ErrorResponse(req.ID, constants.FaultInternalError, fmt.Sprintf("%s%v", faultPrefix, r))
		}
	}()

	result, err := m.fn(ctx, args)
	if err != nil {
		return &Response{ID: req.ID, Error: FaultFromError(req.Method, err)}
	}
	return &Response{ID: req.ID, Result: result}
}

type sessionKey struct{}

// WithSession 把会话放入 context, 供需要当前用户的方法使用
func WithSession(ctx context.Context, session *dto.SessionInfo) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom 取当前会话, 未登录返回 nil
func SessionFrom(ctx context.Context) *dto.SessionInfo {
	session, _ := ctx.Value(sessionKey{}).(*dto.SessionInfo)
	return session
}
