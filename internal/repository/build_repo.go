package repository

import (
	"context"

	"gorm.io/gorm"

	"tcms/internal/model"
	pkgErrors "tcms/pkg/errors"
)

// BuildFilter Build 查询条件, nil 字段不参与过滤
type BuildFilter struct {
	BuildID   *int64
	ProductID *int64
	Name      *string
	Milestone *string
	IsActive  *bool
}

// BuildRepository 构建仓储接口
type BuildRepository interface {
	Create(ctx context.Context, build *model.Build) error
	FindByID(ctx context.Context, id int64) (*model.Build, error)
	FindByProductAndName(ctx context.Context, productID int64, name string) (*model.Build, error)
	List(ctx context.Context, filter *BuildFilter) ([]*model.Build, error)
	UpdateFields(ctx context.Context, build *model.Build, columns []string) error
}

type buildRepository struct {
	db *gorm.DB
}

// NewBuildRepository 创建构建仓储实例
func NewBuildRepository(db *gorm.DB) BuildRepository {
	return &buildRepository{db: db}
}

// Create 创建构建, 约束冲突原样带出驱动错误
func (r *buildRepository) Create(ctx context.Context, build *model.Build) error {
	if err := r.db.WithContext(ctx).Create(build).Error; err != nil {
		return writeError(err, "Failed to create build")
	}
	return nil
}

// FindByID 根据ID查询构建
func (r *buildRepository) FindByID(ctx context.Context, id int64) (*model.Build, error) {
	var build model.Build
	err := r.db.WithContext(ctx).Preload("Product").First(&build, id).Error
	if err != nil {
		return nil, findError(err, pkgErrors.ErrBuildNotFound, "Failed to query build")
	}
	return &build, nil
}

// FindByProductAndName 按自然键 (产品, 名称) 查询
func (r *buildRepository) FindByProductAndName(ctx context.Context, productID int64, name string) (*model.Build, error) {
	var build model.Build
	err := r.db.WithContext(ctx).Preload("Product").
		Where("product_id = ? AND name = ?", productID, name).
		First(&build).Error
	if err != nil {
		return nil, findError(err, pkgErrors.ErrBuildNotFound, "Failed to query build")
	}
	return &build, nil
}

// List 按条件查询, 结果按主键升序
func (r *buildRepository) List(ctx context.Context, filter *BuildFilter) ([]*model.Build, error) {
	query := r.db.WithContext(ctx).Model(&model.Build{}).Preload("Product")

	if filter.BuildID != nil {
		query = query.Where("build_id = ?", *filter.BuildID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.Milestone != nil {
		query = query.Where("milestone = ?", *filter.Milestone)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var builds []*model.Build
	if err := query.Order("build_id ASC").Find(&builds).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "Failed to list builds", err)
	}
	return builds, nil
}

// UpdateFields 只写入指定列
func (r *buildRepository) UpdateFields(ctx context.Context, build *model.Build, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(build).Omit("Product").Select(columns).Updates(build).Error
	if err != nil {
		return writeError(err, "Failed to update build")
	}
	return nil
}
