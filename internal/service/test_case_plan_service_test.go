package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcms/internal/pkg/testdb"
	"tcms/internal/repository"
	"tcms/internal/service"
	pkgErrors "tcms/pkg/errors"
)

func TestTestCasePlanService(t *testing.T) {
	db, seeded := testdb.Seeded(t)
	svc := service.NewTestCasePlanService(repository.NewTestCasePlanRepository(db))
	ctx := context.Background()

	caseID := seeded.Cases["Login works"]
	planID := seeded.Plans["StarCraft Regression"]

	t.Run("get", func(t *testing.T) {
		resp, err := svc.Get(ctx, caseID, planID)
		require.NoError(t, err)
		assert.Equal(t, caseID, resp.CaseID)
		assert.Equal(t, planID, resp.PlanID)
		assert.Equal(t, "Login works", resp.Case)
		assert.Equal(t, "StarCraft Regression", resp.Plan)
		assert.Equal(t, int64(10), *resp.Sortkey)
	})

	t.Run("same case in another plan", func(t *testing.T) {
		resp, err := svc.Get(ctx, caseID, seeded.Plans["WarCraft Smoke"])
		require.NoError(t, err)
		assert.Equal(t, int64(1), *resp.Sortkey)
	})

	t.Run("missing pair", func(t *testing.T) {
		_, err := svc.Get(ctx, seeded.Cases["Logout works"], seeded.Plans["WarCraft Smoke"])
		assert.True(t, errors.Is(err, pkgErrors.ErrCasePlanNotFound))
	})

	t.Run("update sortkey", func(t *testing.T) {
		sortkey := int64(-3)
		resp, err := svc.UpdateSortkey(ctx, caseID, planID, &sortkey)
		require.NoError(t, err)
		assert.Equal(t, int64(-3), *resp.Sortkey)

		got, err := svc.Get(ctx, caseID, planID)
		require.NoError(t, err)
		assert.Equal(t, int64(-3), *got.Sortkey)
	})

	t.Run("nil sortkey is a no-op", func(t *testing.T) {
		before, err := svc.Get(ctx, caseID, planID)
		require.NoError(t, err)

		resp, err := svc.UpdateSortkey(ctx, caseID, planID, nil)
		require.NoError(t, err)
		assert.Equal(t, before, resp)
	})

	t.Run("unsorted case", func(t *testing.T) {
		resp, err := svc.Get(ctx, seeded.Cases["Unsorted case"], planID)
		require.NoError(t, err)
		assert.Nil(t, resp.Sortkey)
	})
}
