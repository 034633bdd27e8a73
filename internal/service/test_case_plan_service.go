package service

import (
	"context"

	"go.uber.org/zap"

	"tcms/internal/dto"
	"tcms/internal/model"
	"tcms/internal/pkg/logger"
	"tcms/internal/repository"
)

// TestCasePlanService 用例-计划关联服务
type TestCasePlanService interface {
	Get(ctx context.Context, caseID, planID int64) (*dto.TestCasePlanResponse, error)
	// UpdateSortkey sortkey 为 nil 时不写入, 原样返回
	UpdateSortkey(ctx context.Context, caseID, planID int64, sortkey *int64) (*dto.TestCasePlanResponse, error)
}

type testCasePlanService struct {
	repo repository.TestCasePlanRepository
}

func NewTestCasePlanService(repo repository.TestCasePlanRepository) TestCasePlanService {
	return &testCasePlanService{repo: repo}
}

func (s *testCasePlanService) Get(ctx context.Context, caseID, planID int64) (*dto.TestCasePlanResponse, error) {
	tcp, err := s.repo.FindByCaseAndPlan(ctx, caseID, planID)
	if err != nil {
		return nil, err
	}
	return toCasePlanResponse(tcp), nil
}

func (s *testCasePlanService) UpdateSortkey(ctx context.Context, caseID, planID int64, sortkey *int64) (*dto.TestCasePlanResponse, error) {
	tcp, err := s.repo.FindByCaseAndPlan(ctx, caseID, planID)
	if err != nil {
		return nil, err
	}

	if sortkey != nil {
		if err := s.repo.UpdateSortkey(ctx, tcp, *sortkey); err != nil {
			return nil, err
		}
		logger.Debug("sortkey 已更新",
			zap.Int64("case_id", caseID),
			zap.Int64("plan_id", planID),
			zap.Int64("sortkey", *sortkey))
	}

	return toCasePlanResponse(tcp), nil
}

func toCasePlanResponse(tcp *model.TestCasePlan) *dto.TestCasePlanResponse {
	resp := &dto.TestCasePlanResponse{
		ID:      tcp.ID,
		PlanID:  tcp.PlanID,
		CaseID:  tcp.CaseID,
		Sortkey: tcp.Sortkey,
	}
	if tcp.Plan != nil {
		resp.Plan = tcp.Plan.Name
	}
	if tcp.Case != nil {
		resp.Case = tcp.Case.Summary
	}
	return resp
}
