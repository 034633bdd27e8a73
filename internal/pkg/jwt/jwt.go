package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tcms/internal/pkg/config"
	"tcms/pkg/constants"
	pkgErrors "tcms/pkg/errors"
)

// SessionClaims 会话Claims, RegisteredClaims.ID 为会话ID, 注销时按它吊销
type SessionClaims struct {
	Username string `json:"username"`
	AuthType string `json:"auth_type"` // ldap or local
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// Issuer 签发与校验会话Token
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(cfg *config.JWTConfig) *Issuer {
	return &Issuer{
		secret: []byte(cfg.Secret),
		ttl:    time.Duration(cfg.SessionExpire) * time.Second,
		now:    time.Now,
	}
}

// TTL 会话有效期
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue 生成会话Token
func (i *Issuer) Issue(username, authType, role string) (string, *SessionClaims, error) {
	now := i.now()
	claims := &SessionClaims{
		Username: username,
		AuthType: authType,
		Role:     role,
		Type:     constants.JWTTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse 解析并校验Token签名、过期时间和类型
func (i *Issuer) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, pkgErrors.ErrTokenExpired
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeUnauthorized, "Invalid session token", err)
	}

	if !token.Valid || claims.Type != constants.JWTTypeSession || claims.ID == "" {
		return nil, pkgErrors.ErrInvalidToken
	}

	return claims, nil
}
