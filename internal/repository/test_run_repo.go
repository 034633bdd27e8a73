package repository

import (
	"context"

	"gorm.io/gorm"

	"tcms/internal/model"
	pkgErrors "tcms/pkg/errors"
)

// TestRunRepository 测试执行仓储接口 (只读)
type TestRunRepository interface {
	ListByBuildID(ctx context.Context, buildID int64) ([]*model.TestRun, error)
}

type testRunRepository struct {
	db *gorm.DB
}

func NewTestRunRepository(db *gorm.DB) TestRunRepository {
	return &testRunRepository{db: db}
}

// ListByBuildID 查询构建下的全部执行, 按创建顺序
func (r *testRunRepository) ListByBuildID(ctx context.Context, buildID int64) ([]*model.TestRun, error) {
	var runs []*model.TestRun
	err := r.db.WithContext(ctx).
		Preload("Plan").Preload("Build").Preload("Manager").
		Preload("DefaultTester").Preload("ProductVersion").
		Where("build_id = ?", buildID).
		Order("run_id ASC").
		Find(&runs).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "Failed to list test runs", err)
	}
	return runs, nil
}

// TestCaseRunRepository 用例执行结果仓储接口 (只读)
type TestCaseRunRepository interface {
	ListByBuildID(ctx context.Context, buildID int64) ([]*model.TestCaseRun, error)
}

type testCaseRunRepository struct {
	db *gorm.DB
}

func NewTestCaseRunRepository(db *gorm.DB) TestCaseRunRepository {
	return &testCaseRunRepository{db: db}
}

func (r *testCaseRunRepository) ListByBuildID(ctx context.Context, buildID int64) ([]*model.TestCaseRun, error) {
	var caseRuns []*model.TestCaseRun
	err := r.db.WithContext(ctx).
		Preload("Run").Preload("Case").Preload("Build").
		Preload("Assignee").Preload("TestedBy").
		Where("build_id = ?", buildID).
		Order("case_run_id ASC").
		Find(&caseRuns).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "Failed to list test case runs", err)
	}
	return caseRuns, nil
}
