package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"tcms/internal/dto"
	"tcms/internal/pkg/fixtures"
	"tcms/internal/pkg/testdb"
	"tcms/internal/repository"
	"tcms/internal/service"
	pkgErrors "tcms/pkg/errors"
)

type BuildServiceSuite struct {
	suite.Suite
	ctx    context.Context
	svc    service.BuildService
	seeded *fixtures.Seeded
}

func TestBuildService(t *testing.T) {
	suite.Run(t, new(BuildServiceSuite))
}

func (s *BuildServiceSuite) SetupTest() {
	db, seeded := testdb.Seeded(s.T())
	buildRepo := repository.NewBuildRepository(db)
	s.ctx = context.Background()
	s.seeded = seeded
	s.svc = service.NewBuildService(
		service.NewResolver(repository.NewProductRepository(db), buildRepo),
		buildRepo,
		repository.NewTestRunRepository(db),
		repository.NewTestCaseRunRepository(db),
	)
}

func (s *BuildServiceSuite) buildID(product, name string) int64 {
	id, ok := s.seeded.Builds[fixtures.BuildKey(product, name)]
	s.Require().True(ok)
	return id
}

func (s *BuildServiceSuite) TestCreateRequiresProductAndName() {
	cases := []*dto.CreateBuildRequest{
		{},
		{Name: "TB"},
		{Product: dto.ProductByID(s.seeded.Products["StarCraft"])},
	}
	for _, req := range cases {
		_, err := s.svc.Create(s.ctx, req)
		s.True(errors.Is(err, pkgErrors.ErrBuildFieldsRequired))
	}
}

func (s *BuildServiceSuite) TestCreateWithUnknownProduct() {
	_, err := s.svc.Create(s.ctx, &dto.CreateBuildRequest{Product: dto.ProductByID(9999), Name: "B"})
	s.True(errors.Is(err, pkgErrors.ErrProductNotFound))

	_, err = s.svc.Create(s.ctx, &dto.CreateBuildRequest{Product: dto.ProductByName("AAAAAAAAAAAAAA"), Name: "B"})
	s.True(errors.Is(err, pkgErrors.ErrProductNotFound))
}

func (s *BuildServiceSuite) TestCreateRoundTrip() {
	desc := "描述: 非ASCII内容"
	resp, err := s.svc.Create(s.ctx, &dto.CreateBuildRequest{
		Product:     dto.ProductByName("StarCraft"),
		Name:        "B3",
		Description: &desc,
	})
	s.Require().NoError(err)

	s.NotZero(resp.BuildID)
	s.Equal("B3", resp.Name)
	s.Equal(s.seeded.Products["StarCraft"], resp.ProductID)
	s.Equal("StarCraft", resp.Product)
	s.Equal("---", resp.Milestone)
	s.Equal(desc, *resp.Description)
	s.True(resp.IsActive)

	got, err := s.svc.GetByID(s.ctx, resp.BuildID)
	s.Require().NoError(err)
	s.Equal(resp, got)
}

func (s *BuildServiceSuite) TestCreateWithoutDescriptionViolatesConstraint() {
	_, err := s.svc.Create(s.ctx, &dto.CreateBuildRequest{
		Product: dto.ProductByID(s.seeded.Products["StarCraft"]),
		Name:    "B4",
	})
	s.Require().Error(err)
	s.Equal(pkgErrors.CodeConstraintViolation, pkgErrors.CodeOf(err))
	s.Contains(err.Error(), "NOT NULL constraint")
}

func (s *BuildServiceSuite) TestCreateDuplicateName() {
	desc := "dup"
	_, err := s.svc.Create(s.ctx, &dto.CreateBuildRequest{
		Product:     dto.ProductByName("StarCraft"),
		Name:        "B1",
		Description: &desc,
	})
	s.Equal(pkgErrors.CodeConstraintViolation, pkgErrors.CodeOf(err))
}

func (s *BuildServiceSuite) TestUpdate() {
	id := s.buildID("StarCraft", "B1")
	name := "B1-renamed"
	inactive := false
	resp, err := s.svc.Update(s.ctx, id, &dto.UpdateBuildRequest{
		Product:  lo.ToPtr(dto.ProductByName("WarCraft")),
		Name:     &name,
		IsActive: &inactive,
	})
	s.Require().NoError(err)
	s.Equal("B1-renamed", resp.Name)
	s.Equal("WarCraft", resp.Product)
	s.Equal(s.seeded.Products["WarCraft"], resp.ProductID)
	s.False(resp.IsActive)
	s.Equal("first build", *resp.Description)

	got, err := s.svc.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(resp, got)
}

func (s *BuildServiceSuite) TestUpdateEmptyFieldsReturnsEntity() {
	id := s.buildID("StarCraft", "B2")
	resp, err := s.svc.Update(s.ctx, id, &dto.UpdateBuildRequest{})
	s.Require().NoError(err)
	s.Equal("B2", resp.Name)
	s.Equal("M2", resp.Milestone)
	s.False(resp.IsActive)
}

func (s *BuildServiceSuite) TestUpdateMissingBuild() {
	_, err := s.svc.Update(s.ctx, -99, &dto.UpdateBuildRequest{})
	s.True(errors.Is(err, pkgErrors.ErrBuildNotFound))
}

func (s *BuildServiceSuite) TestUpdateUnknownProductLeavesRowUntouched() {
	id := s.buildID("StarCraft", "B1")
	name := "changed"
	_, err := s.svc.Update(s.ctx, id, &dto.UpdateBuildRequest{
		Product: lo.ToPtr(dto.ProductByID(9999)),
		Name:    &name,
	})
	s.True(errors.Is(err, pkgErrors.ErrProductNotFound))

	got, err := s.svc.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("B1", got.Name)
}

func (s *BuildServiceSuite) TestGetByIDMissing() {
	_, err := s.svc.GetByID(s.ctx, 9999)
	s.True(errors.Is(err, pkgErrors.ErrBuildNotFound))
	s.Equal("TestBuild matching query does not exist.", err.(*pkgErrors.AppError).Detail())
}

func (s *BuildServiceSuite) TestCheck() {
	resp, err := s.svc.Check(s.ctx, "B1", dto.ProductByName("WarCraft"))
	s.Require().NoError(err)
	s.Equal(s.buildID("WarCraft", "B1"), resp.BuildID)

	resp, err = s.svc.Check(s.ctx, "B1", dto.ProductByID(s.seeded.Products["StarCraft"]))
	s.Require().NoError(err)
	s.Equal(s.buildID("StarCraft", "B1"), resp.BuildID)

	_, err = s.svc.Check(s.ctx, "AAAAAAAAAAAAAA", dto.ProductByName("StarCraft"))
	s.True(errors.Is(err, pkgErrors.ErrBuildNotFound))

	_, err = s.svc.Check(s.ctx, "B1", dto.ProductByName("AAAAAAAAAAAAAA"))
	s.True(errors.Is(err, pkgErrors.ErrProductNotFound))

	_, err = s.svc.Check(s.ctx, "", dto.ProductByName("StarCraft"))
	s.True(errors.Is(err, pkgErrors.ErrBuildNotFound))
}

func (s *BuildServiceSuite) TestFilter() {
	all, err := s.svc.Filter(s.ctx, &dto.BuildFilterQuery{})
	s.Require().NoError(err)
	s.Len(all, 3)
	s.True(all[0].BuildID < all[1].BuildID && all[1].BuildID < all[2].BuildID)

	byName, err := s.svc.Filter(s.ctx, &dto.BuildFilterQuery{Name: lo.ToPtr("B1")})
	s.Require().NoError(err)
	s.Len(byName, 2)

	byProduct, err := s.svc.Filter(s.ctx, &dto.BuildFilterQuery{Product: lo.ToPtr(dto.ProductByName("StarCraft"))})
	s.Require().NoError(err)
	s.Equal([]string{"B1", "B2"}, lo.Map(byProduct, func(b *dto.BuildResponse, _ int) string { return b.Name }))

	active, err := s.svc.Filter(s.ctx, &dto.BuildFilterQuery{
		Product:  lo.ToPtr(dto.ProductByName("StarCraft")),
		IsActive: lo.ToPtr(false),
	})
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("B2", active[0].Name)

	none, err := s.svc.Filter(s.ctx, &dto.BuildFilterQuery{Product: lo.ToPtr(dto.ProductByName("Missing"))})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *BuildServiceSuite) TestListCaseRuns() {
	caseRuns, err := s.svc.ListCaseRuns(s.ctx, s.buildID("StarCraft", "B1"))
	s.Require().NoError(err)
	s.Require().Len(caseRuns, 3)

	s.Equal([]string{"Login works", "Logout works", "Unsorted case"},
		lo.Map(caseRuns, func(cr *dto.TestCaseRunResponse, _ int) string { return cr.Case }))
	s.Equal("PASSED", caseRuns[0].CaseRunStatus)
	s.Equal("Nightly run", caseRuns[0].Run)
	s.Equal("tester", *caseRuns[0].Assignee)
	s.Equal("tester", *caseRuns[0].TestedBy)
	s.Nil(caseRuns[1].TestedBy)
	s.Nil(caseRuns[2].Assignee)
	s.Equal("IDLE", caseRuns[2].CaseRunStatus)

	empty, err := s.svc.ListCaseRuns(s.ctx, s.buildID("WarCraft", "B1"))
	s.Require().NoError(err)
	s.Empty(empty)

	_, err = s.svc.ListCaseRuns(s.ctx, 9999)
	s.True(errors.Is(err, pkgErrors.ErrBuildNotFound))
}

func (s *BuildServiceSuite) TestListRuns() {
	runs, err := s.svc.ListRuns(s.ctx, s.buildID("StarCraft", "B1"))
	s.Require().NoError(err)
	s.Require().Len(runs, 2)

	s.Equal("Nightly run", runs[0].Summary)
	s.Equal("Weekly run", runs[1].Summary)
	s.Equal("StarCraft Regression", runs[0].Plan)
	s.Equal("B1", runs[0].Build)
	s.Equal("admin", runs[0].Manager)
	s.Equal("tester", *runs[0].DefaultTester)
	s.Equal("1.0", *runs[0].ProductVersion)
	s.Equal("linux", runs[0].EnvValues["os"])
	s.Nil(runs[1].DefaultTester)
	s.NotNil(runs[1].EnvValues)

	_, err = s.svc.ListRuns(s.ctx, 9999)
	s.True(errors.Is(err, pkgErrors.ErrBuildNotFound))
}

func TestCreateRejectsOverlongName(t *testing.T) {
	db, _ := testdb.Seeded(t)
	buildRepo := repository.NewBuildRepository(db)
	svc := service.NewBuildService(
		service.NewResolver(repository.NewProductRepository(db), buildRepo),
		buildRepo,
		repository.NewTestRunRepository(db),
		repository.NewTestCaseRunRepository(db),
	)

	desc := "x"
	_, err := svc.Create(context.Background(), &dto.CreateBuildRequest{
		Product:     dto.ProductByName("StarCraft"),
		Name:        string(make([]byte, 300)),
		Description: &desc,
	})
	require.Error(t, err)
	assert.Equal(t, pkgErrors.CodeBadRequest, pkgErrors.CodeOf(err))
	assert.Contains(t, err.Error(), "at most 255")
}
