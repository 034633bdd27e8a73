package dto

// ProductRef 产品引用: 数值ID 或 唯一名称, 二选一
type ProductRef struct {
	ID     int64
	Name   string
	ByName bool
}

// ProductByID 按ID引用产品
func ProductByID(id int64) ProductRef {
	return ProductRef{ID: id}
}

// ProductByName 按名称引用产品
func ProductByName(name string) ProductRef {
	return ProductRef{Name: name, ByName: true}
}

// IsZero 未提供产品引用
func (p ProductRef) IsZero() bool {
	return !p.ByName && p.ID == 0
}

// SessionInfo 当前会话信息, 由中间件从Token解析得到
type SessionInfo struct {
	Username  string `json:"username"`
	AuthType  string `json:"auth_type"`
	Role      string `json:"role"`
	TokenID   string `json:"-"`
	ExpiresAt int64  `json:"expires_at"` // Unix 秒
}
