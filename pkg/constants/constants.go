package constants

// 认证类型
const (
	AuthTypeLDAP  = "ldap"
	AuthTypeLocal = "local"
)

// 用户状态
const (
	StatusEnabled  int8 = 1
	StatusDisabled int8 = 0
)

// TestCaseRun 状态
const (
	CaseRunStatusIdle    = "IDLE"
	CaseRunStatusRunning = "RUNNING"
	CaseRunStatusPaused  = "PAUSED"
	CaseRunStatusPassed  = "PASSED"
	CaseRunStatusFailed  = "FAILED"
	CaseRunStatusBlocked = "BLOCKED"
	CaseRunStatusError   = "ERROR"
	CaseRunStatusWaived  = "WAIVED"
)

// DefaultMilestone 未指定 milestone 时的占位值
const DefaultMilestone = "---"

// Session 相关
const (
	SessionContextKey = "rpc_session"
	JWTTypeSession    = "session"
)

// HTTP Header
const (
	HeaderAuthorization = "Authorization"
	HeaderBearerPrefix  = "Bearer "
)

// JSON-RPC
const (
	JSONRPCVersion = "2.0"

	FaultParseError     = -32700
	FaultInvalidRequest = -32600
	FaultMethodNotFound = -32601
	FaultInvalidParams  = -32602
	FaultInternalError  = -32603
	FaultNotFound       = -32000
	FaultConstraint     = -32001
	FaultAuth           = -32002
)

// DateTimeLayout 序列化日期时间字段使用的格式
const DateTimeLayout = "2006-01-02 15:04:05"
