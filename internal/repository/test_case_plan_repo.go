package repository

import (
	"context"

	"gorm.io/gorm"

	"tcms/internal/model"
	pkgErrors "tcms/pkg/errors"
)

// TestCasePlanRepository 用例-计划关联仓储接口
type TestCasePlanRepository interface {
	FindByCaseAndPlan(ctx context.Context, caseID, planID int64) (*model.TestCasePlan, error)
	UpdateSortkey(ctx context.Context, tcp *model.TestCasePlan, sortkey int64) error
}

type testCasePlanRepository struct {
	db *gorm.DB
}

func NewTestCasePlanRepository(db *gorm.DB) TestCasePlanRepository {
	return &testCasePlanRepository{db: db}
}

func (r *testCasePlanRepository) FindByCaseAndPlan(ctx context.Context, caseID, planID int64) (*model.TestCasePlan, error) {
	var tcp model.TestCasePlan
	err := r.db.WithContext(ctx).Preload("Plan").Preload("Case").
		Where("case_id = ? AND plan_id = ?", caseID, planID).
		First(&tcp).Error
	if err != nil {
		return nil, findError(err, pkgErrors.ErrCasePlanNotFound, "Failed to query test case plan")
	}
	return &tcp, nil
}

func (r *testCasePlanRepository) UpdateSortkey(ctx context.Context, tcp *model.TestCasePlan, sortkey int64) error {
	err := r.db.WithContext(ctx).Model(&model.TestCasePlan{}).
		Where("id = ?", tcp.ID).
		Update("sortkey", sortkey).Error
	if err != nil {
		return writeError(err, "Failed to update sortkey")
	}
	tcp.Sortkey = &sortkey
	return nil
}
