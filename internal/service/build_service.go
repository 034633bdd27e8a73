package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"tcms/internal/dto"
	"tcms/internal/model"
	"tcms/internal/pkg/logger"
	"tcms/internal/repository"
	"tcms/pkg/constants"
	pkgErrors "tcms/pkg/errors"
	"tcms/pkg/utils"
)

// BuildService 构建服务接口
type BuildService interface {
	Create(ctx context.Context, req *dto.CreateBuildRequest) (*dto.BuildResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateBuildRequest) (*dto.BuildResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.BuildResponse, error)
	Check(ctx context.Context, name string, product dto.ProductRef) (*dto.BuildResponse, error)
	Filter(ctx context.Context, query *dto.BuildFilterQuery) ([]*dto.BuildResponse, error)
	ListCaseRuns(ctx context.Context, id int64) ([]*dto.TestCaseRunResponse, error)
	ListRuns(ctx context.Context, id int64) ([]*dto.TestRunResponse, error)
}

type buildService struct {
	resolver    Resolver
	buildRepo   repository.BuildRepository
	runRepo     repository.TestRunRepository
	caseRunRepo repository.TestCaseRunRepository
}

// NewBuildService 创建构建服务实例
func NewBuildService(
	resolver Resolver,
	buildRepo repository.BuildRepository,
	runRepo repository.TestRunRepository,
	caseRunRepo repository.TestCaseRunRepository,
) BuildService {
	return &buildService{
		resolver:    resolver,
		buildRepo:   buildRepo,
		runRepo:     runRepo,
		caseRunRepo: caseRunRepo,
	}
}

// Create 创建构建. description 原样写入, 为空时由数据库约束拒绝
func (s *buildService) Create(ctx context.Context, req *dto.CreateBuildRequest) (*dto.BuildResponse, error) {
	if req.Product.IsZero() || req.Name == "" {
		return nil, pkgErrors.ErrBuildFieldsRequired
	}
	if err := utils.Validator().Struct(req); err != nil {
		return nil, pkgErrors.InvalidParameter("%s", utils.FormatValidationError(err))
	}

	product, err := s.resolver.Product(ctx, req.Product)
	if err != nil {
		return nil, err
	}

	build := &model.Build{
		ProductID:   product.ID,
		Name:        req.Name,
		Milestone:   lo.FromPtrOr(req.Milestone, constants.DefaultMilestone),
		Description: req.Description,
		IsActive:    lo.FromPtrOr(req.IsActive, true),
	}
	if err := s.buildRepo.Create(ctx, build); err != nil {
		return nil, err
	}
	build.Product = product

	logger.Info("构建已创建",
		zap.Int64("build_id", build.ID),
		zap.String("name", build.Name),
		zap.String("product", product.Name))

	return s.toResponse(build), nil
}

// Update 只更新请求中给出的字段
func (s *buildService) Update(ctx context.Context, id int64, req *dto.UpdateBuildRequest) (*dto.BuildResponse, error) {
	build, err := s.resolver.Build(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return s.toResponse(build), nil
	}
	if err := utils.Validator().Struct(req); err != nil {
		return nil, pkgErrors.InvalidParameter("%s", utils.FormatValidationError(err))
	}

	var columns []string
	if req.Product != nil {
		product, err := s.resolver.Product(ctx, *req.Product)
		if err != nil {
			return nil, err
		}
		build.ProductID = product.ID
		build.Product = product
		columns = append(columns, "product_id")
	}
	if req.Name != nil {
		build.Name = *req.Name
		columns = append(columns, "name")
	}
	if req.Milestone != nil {
		build.Milestone = *req.Milestone
		columns = append(columns, "milestone")
	}
	if req.Description != nil {
		build.Description = req.Description
		columns = append(columns, "description")
	}
	if req.IsActive != nil {
		build.IsActive = *req.IsActive
		columns = append(columns, "is_active")
	}

	if err := s.buildRepo.UpdateFields(ctx, build, columns); err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		logger.Info("构建已更新", zap.Int64("build_id", build.ID), zap.Strings("fields", columns))
	}

	return s.toResponse(build), nil
}

// GetByID 根据ID获取构建
func (s *buildService) GetByID(ctx context.Context, id int64) (*dto.BuildResponse, error) {
	build, err := s.resolver.Build(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(build), nil
}

// Check 按 (名称, 产品) 查找构建. 产品先于名称校验
func (s *buildService) Check(ctx context.Context, name string, product dto.ProductRef) (*dto.BuildResponse, error) {
	if name == "" {
		if _, err := s.resolver.Product(ctx, product); err != nil {
			return nil, err
		}
		return nil, pkgErrors.ErrBuildNotFound
	}
	build, err := s.resolver.BuildByName(ctx, name, product)
	if err != nil {
		return nil, err
	}
	return s.toResponse(build), nil
}

// Filter 按条件查询构建列表
func (s *buildService) Filter(ctx context.Context, query *dto.BuildFilterQuery) ([]*dto.BuildResponse, error) {
	filter := &repository.BuildFilter{
		BuildID:   query.BuildID,
		ProductID: query.ProductID,
		Name:      query.Name,
		Milestone: query.Milestone,
		IsActive:  query.IsActive,
	}

	if query.Product != nil {
		product, err := s.resolver.Product(ctx, *query.Product)
		if err != nil {
			if pkgErrors.IsNotFound(err) {
				return []*dto.BuildResponse{}, nil
			}
			return nil, err
		}
		if filter.ProductID != nil && *filter.ProductID != product.ID {
			return []*dto.BuildResponse{}, nil
		}
		filter.ProductID = &product.ID
	}

	builds, err := s.buildRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return lo.Map(builds, func(b *model.Build, _ int) *dto.BuildResponse {
		return s.toResponse(b)
	}), nil
}

// ListCaseRuns 构建下的全部用例执行结果
func (s *buildService) ListCaseRuns(ctx context.Context, id int64) ([]*dto.TestCaseRunResponse, error) {
	build, err := s.resolver.Build(ctx, id)
	if err != nil {
		return nil, err
	}

	caseRuns, err := s.caseRunRepo.ListByBuildID(ctx, build.ID)
	if err != nil {
		return nil, err
	}
	return lo.Map(caseRuns, func(cr *model.TestCaseRun, _ int) *dto.TestCaseRunResponse {
		return toCaseRunResponse(cr)
	}), nil
}

// ListRuns 构建下的全部测试执行
func (s *buildService) ListRuns(ctx context.Context, id int64) ([]*dto.TestRunResponse, error) {
	build, err := s.resolver.Build(ctx, id)
	if err != nil {
		return nil, err
	}

	runs, err := s.runRepo.ListByBuildID(ctx, build.ID)
	if err != nil {
		return nil, err
	}
	return lo.Map(runs, func(r *model.TestRun, _ int) *dto.TestRunResponse {
		return toRunResponse(r)
	}), nil
}

// toResponse 转换为响应对象
func (s *buildService) toResponse(build *model.Build) *dto.BuildResponse {
	resp := &dto.BuildResponse{
		BuildID:     build.ID,
		Name:        build.Name,
		ProductID:   build.ProductID,
		Milestone:   build.Milestone,
		Description: build.Description,
		IsActive:    build.IsActive,
	}
	if build.Product != nil {
		resp.Product = build.Product.Name
	}
	return resp
}

func toRunResponse(run *model.TestRun) *dto.TestRunResponse {
	resp := &dto.TestRunResponse{
		RunID:            run.ID,
		Summary:          run.Summary,
		Notes:            run.Notes,
		PlanID:           run.PlanID,
		BuildID:          run.BuildID,
		ManagerID:        run.ManagerID,
		DefaultTesterID:  run.DefaultTesterID,
		ProductVersionID: run.ProductVersionID,
		StartDate:        run.StartDate.Format(constants.DateTimeLayout),
		StopDate:         formatTime(run.StopDate),
		EnvValues:        map[string]interface{}(run.EnvValues),
	}
	if resp.EnvValues == nil {
		resp.EnvValues = map[string]interface{}{}
	}
	if run.Plan != nil {
		resp.Plan = run.Plan.Name
	}
	if run.Build != nil {
		resp.Build = run.Build.Name
	}
	if run.Manager != nil {
		resp.Manager = run.Manager.Username
	}
	if run.DefaultTester != nil {
		resp.DefaultTester = &run.DefaultTester.Username
	}
	if run.ProductVersion != nil {
		resp.ProductVersion = &run.ProductVersion.Value
	}
	return resp
}

func toCaseRunResponse(cr *model.TestCaseRun) *dto.TestCaseRunResponse {
	resp := &dto.TestCaseRunResponse{
		CaseRunID:     cr.ID,
		RunID:         cr.RunID,
		CaseID:        cr.CaseID,
		BuildID:       cr.BuildID,
		AssigneeID:    cr.AssigneeID,
		TestedByID:    cr.TestedByID,
		CaseRunStatus: cr.CaseRunStatus,
		Notes:         cr.Notes,
		Sortkey:       cr.Sortkey,
		CloseDate:     formatTime(cr.CloseDate),
	}
	if cr.Run != nil {
		resp.Run = cr.Run.Summary
	}
	if cr.Case != nil {
		resp.Case = cr.Case.Summary
	}
	if cr.Build != nil {
		resp.Build = cr.Build.Name
	}
	if cr.Assignee != nil {
		resp.Assignee = &cr.Assignee.Username
	}
	if cr.TestedBy != nil {
		resp.TestedBy = &cr.TestedBy.Username
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(constants.DateTimeLayout)
	return &s
}
