package model

import "time"

// User 用户, 本地用户保存 bcrypt 密码, LDAP 用户登录时同步
type User struct {
	BaseStatus
	AuthProvider string     `gorm:"size:20;not null;default:'local'" json:"auth_provider"`
	Username     string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Password     string     `gorm:"size:255;not null" json:"-"`
	Role         string     `gorm:"size:20;not null;default:'tester'" json:"role"`
	Email        *string    `gorm:"size:100" json:"email"`
	DisplayName  *string    `gorm:"size:100" json:"display_name"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

func (User) TableName() string {
	return "users"
}

// RevokedSession 已注销的会话Token, 过期后由定时任务清理
type RevokedSession struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TokenID   string    `gorm:"size:64;not null;uniqueIndex" json:"token_id"`
	Username  string    `gorm:"size:50;not null" json:"username"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RevokedSession) TableName() string {
	return "revoked_sessions"
}
