package service

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"github.com/samber/lo"

	"tcms/internal/dto"
	"tcms/internal/pkg/config"
	"tcms/pkg/constants"
	pkgErrors "tcms/pkg/errors"
)

// LDAPService 通过 LDAP 校验用户名密码
type LDAPService interface {
	Authenticate(username, password string) (*dto.UserInfo, error)
}

type ldapService struct {
	cfg *config.LDAPConfig
}

func NewLDAPService(cfg *config.LDAPConfig) LDAPService {
	return &ldapService{
		cfg: cfg,
	}
}

func (s *ldapService) Authenticate(username, password string) (*dto.UserInfo, error) {
	if !s.cfg.Enabled {
		return nil, pkgErrors.New(pkgErrors.CodeAuthError, "LDAP authentication is disabled")
	}
	if password == "" {
		// 空密码会被部分服务器当作匿名绑定
		return nil, pkgErrors.ErrInvalidCredentials
	}

	conn, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	userDN, attributes, err := s.searchUser(conn, username)
	if err != nil {
		return nil, err
	}

	// 以用户DN绑定验证密码
	if err := conn.Bind(userDN, password); err != nil {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	name := attributes[s.cfg.Attributes.Username]
	if name == "" {
		name = username
	}
	userInfo := &dto.UserInfo{
		Username:    name,
		Email:       attributes[s.cfg.Attributes.Email],
		DisplayName: attributes[s.cfg.Attributes.DisplayName],
		AuthType:    constants.AuthTypeLDAP,
	}

	return userInfo, nil
}

// connect 建立连接并以服务账号绑定, 用于后续搜索用户DN
func (s *ldapService) connect() (*ldap.Conn, error) {
	scheme := "ldap"
	if s.cfg.UseSSL {
		scheme = "ldaps"
	}

	conn, err := ldap.DialURL(fmt.Sprintf("%s://%s:%d", scheme, s.cfg.Host, s.cfg.Port))
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeAuthError, pkgErrors.ErrLDAPConnectionFailed.Message, err)
	}

	if err := conn.Bind(s.cfg.BindDN, s.cfg.BindPassword); err != nil {
		conn.Close()
		return nil, pkgErrors.Wrap(pkgErrors.CodeAuthError, "LDAP service bind failed", err)
	}

	return conn, nil
}

// searchUser 按 user_filter 搜索唯一用户, 返回 DN 与请求的属性值
func (s *ldapService) searchUser(conn *ldap.Conn, username string) (string, map[string]string, error) {
	attrs := lo.Uniq(lo.Compact([]string{
		s.cfg.Attributes.Username,
		s.cfg.Attributes.Email,
		s.cfg.Attributes.DisplayName,
	}))

	searchRequest := ldap.NewSearchRequest(
		s.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		2, // 只需要判断是否唯一
		0,
		false,
		fmt.Sprintf(s.cfg.UserFilter, ldap.EscapeFilter(username)),
		attrs,
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil && !ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) {
		return "", nil, pkgErrors.Wrap(pkgErrors.CodeAuthError, "LDAP search failed", err)
	}

	switch {
	case result == nil || len(result.Entries) == 0:
		return "", nil, pkgErrors.ErrInvalidCredentials
	case len(result.Entries) > 1:
		return "", nil, pkgErrors.New(pkgErrors.CodeAuthError, "LDAP search matched more than one user")
	}

	entry := result.Entries[0]
	values := lo.SliceToMap(attrs, func(attr string) (string, string) {
		return attr, entry.GetAttributeValue(attr)
	})
	return entry.DN, values, nil
}
