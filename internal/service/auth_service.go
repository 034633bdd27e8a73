package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"tcms/internal/dto"
	"tcms/internal/model"
	"tcms/internal/pkg/auth"
	"tcms/internal/pkg/config"
	"tcms/internal/pkg/crypto"
	"tcms/internal/pkg/jwt"
	"tcms/internal/pkg/logger"
	"tcms/internal/repository"
	"tcms/pkg/constants"
	pkgErrors "tcms/pkg/errors"
	"tcms/pkg/utils"
)

type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	VerifyToken(ctx context.Context, token string) (*dto.SessionInfo, error)
	Logout(ctx context.Context, session *dto.SessionInfo) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	cfg         *config.AuthConfig
	issuer      *jwt.Issuer
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	ldapService LDAPService
	now         func() time.Time
}

func NewAuthService(
	cfg *config.AuthConfig,
	issuer *jwt.Issuer,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	ldapService LDAPService,
) AuthService {
	return &authService{
		cfg:         cfg,
		issuer:      issuer,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		ldapService: ldapService,
		now:         time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := utils.Validator().Struct(req); err != nil {
		return nil, pkgErrors.InvalidParameter("%s", utils.FormatValidationError(err))
	}

	var userInfo *dto.UserInfo
	var err error

	switch req.AuthType {
	case constants.AuthTypeLDAP:
		if !s.cfg.LDAP.Enabled {
			return nil, pkgErrors.New(pkgErrors.CodeAuthError, "LDAP authentication is disabled")
		}
		userInfo, err = s.ldapService.Authenticate(req.Username, req.Password)
		if err != nil {
			return nil, err
		}
		if userInfo.Role, err = s.syncLDAPUser(ctx, userInfo); err != nil {
			return nil, err
		}

	case constants.AuthTypeLocal:
		if !s.cfg.Local.Enabled {
			return nil, pkgErrors.New(pkgErrors.CodeAuthError, "Local authentication is disabled")
		}
		userInfo, err = s.authenticateLocal(ctx, req.Username, req.Password)
		if err != nil {
			return nil, err
		}

	default:
		return nil, pkgErrors.InvalidParameter("unsupported auth type %q", req.AuthType)
	}

	token, _, err := s.issuer.Issue(userInfo.Username, userInfo.AuthType, userInfo.Role)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeInternalError, "Failed to issue session token", err)
	}

	logger.Info("用户登录成功", zap.String("username", userInfo.Username), zap.String("auth_type", userInfo.AuthType))

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.issuer.TTL().Seconds()),
		User:      userInfo,
	}, nil
}

func (s *authService) authenticateLocal(ctx context.Context, username, password string) (*dto.UserInfo, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pkgErrors.ErrUserNotFound) {
			return nil, pkgErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.AuthProvider != constants.AuthTypeLocal {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	if user.Status != constants.StatusEnabled {
		return nil, pkgErrors.ErrUserDisabled
	}

	if !crypto.CheckPassword(password, user.Password) {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		logger.Warn("更新最后登录时间失败", zap.String("username", username), zap.Error(err))
	}

	return toUserInfo(user), nil
}

// syncLDAPUser LDAP 用户首次登录时落库, 返回其角色
func (s *authService) syncLDAPUser(ctx context.Context, userInfo *dto.UserInfo) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, userInfo.Username)
	if err != nil {
		if !errors.Is(err, pkgErrors.ErrUserNotFound) {
			return "", err
		}
		user = &model.User{
			AuthProvider: constants.AuthTypeLDAP,
			Username:     userInfo.Username,
			Role:         string(auth.RoleTester),
			Email:        stringPtr(userInfo.Email),
			DisplayName:  stringPtr(userInfo.DisplayName),
			BaseStatus:   model.BaseStatus{Status: constants.StatusEnabled},
		}
		if err = s.userRepo.Create(ctx, user); err != nil {
			return "", err
		}
	}
	if user.Status != constants.StatusEnabled {
		return "", pkgErrors.ErrUserDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		logger.Warn("更新最后登录时间失败", zap.String("username", user.Username), zap.Error(err))
	}
	return user.Role, nil
}

// VerifyToken 校验Token并检查是否已注销
func (s *authService) VerifyToken(ctx context.Context, token string) (*dto.SessionInfo, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessionRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, pkgErrors.ErrSessionRevoked
	}

	return &dto.SessionInfo{
		Username:  claims.Username,
		AuthType:  claims.AuthType,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// Logout 吊销当前会话, 记录保留到Token过期
func (s *authService) Logout(ctx context.Context, session *dto.SessionInfo) error {
	if session == nil || session.TokenID == "" {
		return pkgErrors.ErrUnauthorized
	}

	err := s.sessionRepo.Revoke(ctx, &model.RevokedSession{
		TokenID:   session.TokenID,
		Username:  session.Username,
		ExpiresAt: time.Unix(session.ExpiresAt, 0),
	})
	if err != nil {
		return err
	}

	logger.Info("用户已注销", zap.String("username", session.Username))
	return nil
}

// PurgeExpiredSessions 清理已过期的吊销记录
func (s *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}

func toUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		Username:    user.Username,
		DisplayName: user.Username,
		AuthType:    user.AuthProvider,
		Role:        user.Role,
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	if user.DisplayName != nil {
		info.DisplayName = *user.DisplayName
	}
	return info
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
