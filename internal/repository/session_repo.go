package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tcms/internal/model"
	pkgErrors "tcms/pkg/errors"
)

// SessionRepository 已吊销会话仓储
type SessionRepository interface {
	Revoke(ctx context.Context, session *model.RevokedSession) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Revoke 重复注销同一Token视为成功
func (r *sessionRepository) Revoke(ctx context.Context, session *model.RevokedSession) error {
	revoked, err := r.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return err
	}
	if revoked {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return writeError(err, "Failed to revoke session")
	}
	return nil
}

func (r *sessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RevokedSession{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error
	if err != nil {
		return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "Failed to query session", err)
	}
	return count > 0, nil
}

// DeleteExpired 删除已过期的吊销记录, 返回删除条数
func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&model.RevokedSession{})
	if result.Error != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "Failed to purge sessions", result.Error)
	}
	return result.RowsAffected, nil
}
