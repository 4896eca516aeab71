package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/report"
	inmemdb "github.com/Kris-Young-Kim/co-AT-sub000/storage/database/inmem"
)

func TestService_AnnualUsage(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, time.March, 2, 1, 0, 0, 0, time.UTC)
	db := inmemdb.Open()
	clientRepo := inmemdb.NewClientRepository(db)
	jobRepo := inmemdb.NewFabricationRepository(db)
	appRepo := inmemdb.NewApplicationRepository(db)

	newClient := func(name string) client.Client {
		c, err := clientRepo.CreateClient(ctx, client.Client{ID: uuid.NewString(), Name: name, CreatedAt: at, UpdatedAt: at})
		require.NoError(t, err)
		return c
	}
	busy, idle, repaired := newClient("Busy"), newClient("Idle"), newClient("Repaired")

	for _, st := range []string{fabrication.StatusCompleted, fabrication.StatusDelivery} {
		_, err := jobRepo.CreateJob(ctx, fabrication.Job{
			ID:             uuid.NewString(),
			ClientID:       busy.ID,
			ProgressStatus: st,
			CostMaterials:  null.Int64From(30000),
			CreatedAt:      at,
		})
		require.NoError(t, err)
	}
	app, err := appRepo.CreateApplication(ctx, application.Application{
		ID:        uuid.NewString(),
		ClientID:  repaired.ID,
		Category:  application.CategoryRepair,
		Status:    application.StatusInProgress,
		CreatedAt: at,
	})
	require.NoError(t, err)
	_, err = appRepo.CreateServiceLog(ctx, application.ServiceLog{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		ServiceType:   application.ServiceTypeRepair,
		CostTotal:     100000,
		ServiceDate:   at,
	})
	require.NoError(t, err)

	ev := limit.NewEvaluator(inmemdb.NewLimitStore(db), limit.Options{
		CustomMakeCount:   2,
		CustomMakeCost:    100000,
		RepairCost:        100000,
		MaterialCostRatio: 0.7,
	}, nil, nil)
	svc := report.NewService(clientRepo, ev)
	admin := core.Actor{UserID: uuid.NewString(), Roles: []string{core.RoleAdmin}}

	usage, err := svc.AnnualUsage(ctx, admin, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, usage.Year)
	assert.Equal(t, 3, usage.Totals.Clients)
	require.Len(t, usage.Rows, 2)
	assert.Equal(t, busy.ID, usage.Rows[0].Client.ID)
	assert.Equal(t, repaired.ID, usage.Rows[1].Client.ID)
	assert.Equal(t, 2, usage.Totals.CustomMakes)
	assert.Equal(t, int64(60000), usage.Totals.CustomMakeCost)
	assert.Equal(t, int64(100000), usage.Totals.RepairCost)
	assert.Equal(t, 1, usage.Totals.AtCountLimit)
	assert.Equal(t, 1, usage.Totals.AtCostLimit)
	for _, row := range usage.Rows {
		assert.NotEqual(t, idle.ID, row.Client.ID)
	}

	empty, err := svc.AnnualUsage(ctx, admin, 2025)
	require.NoError(t, err)
	assert.Empty(t, empty.Rows)

	_, err = svc.AnnualUsage(ctx, core.Actor{Roles: []string{core.RoleViewer}}, 2026)
	assert.Equal(t, core.KindAuthorizationDenied, core.KindOf(err))
}
