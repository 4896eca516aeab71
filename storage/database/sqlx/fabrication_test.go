package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
)

func TestFabricationRepository_GetJob(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewFabricationRepository(db)
	ctx := context.Background()
	created := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	cols := []string{
		"id", "client_id", "application_id", "title", "assigned_staff_id", "equipment_id", "progress_status",
		"progress_percentage", "cost_materials", "cost_labor", "cost_equipment", "cost_other", "cost_total",
		"expected_completion_date", "manufacturing_start_date", "delivery_date", "notes", "created_at", "updated_at",
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM custom_makes WHERE id = $1 FOR UPDATE")).
		WithArgs("j1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"j1", "c1", nil, "splint", nil, "e1", "manufacturing",
			40, 30000, nil, nil, nil, 45000,
			nil, created, nil, "", created, created,
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM custom_makes WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(cols))

	job, err := repo.GetJob(ctx, "j1", true)
	require.NoError(t, err)
	assert.Equal(t, "manufacturing", job.ProgressStatus)
	assert.Equal(t, 40, job.ProgressPercentage)
	assert.Equal(t, null.StringFrom("e1"), job.EquipmentID)
	assert.Equal(t, int64(30000), job.CostMaterials.Int64)
	assert.False(t, job.ApplicationID.Valid)
	assert.True(t, job.ManufacturingStartDate.Valid)

	_, err = repo.GetJob(ctx, "missing", false)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFabricationRepository_UpdateJob(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewFabricationRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE custom_makes SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE custom_makes SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	job := fabrication.Job{ID: "j1", ProgressStatus: fabrication.StatusInspection, ProgressPercentage: 80}
	updated, err := repo.UpdateJob(ctx, job)
	require.NoError(t, err)
	assert.Equal(t, job, updated)

	_, err = repo.UpdateJob(ctx, fabrication.Job{ID: "gone"})
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFabricationRepository_ProgressEvents(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewFabricationRepository(db)
	ctx := context.Background()
	at := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO custom_make_progress")).
		WithArgs("p1", "j1", "u1", "design", 0, nil, sqlmock.AnyArg(), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM custom_make_progress WHERE custom_make_id = $1")).
		WithArgs("j1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "custom_make_id", "staff_id", "progress_status", "progress_percentage", "notes", "images", "created_at",
		}).AddRow("p1", "j1", "u1", "design", 0, nil, "{https://img.example/a.png}", at))

	_, err := repo.CreateProgressEvent(ctx, fabrication.ProgressEvent{
		ID:           "p1",
		CustomMakeID: "j1",
		StaffID:      null.StringFrom("u1"),
		Status:       fabrication.StatusDesign,
		Images:       []string{},
		CreatedAt:    at,
	})
	require.NoError(t, err)

	events, err := repo.QueryProgressEvents(ctx, "j1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"https://img.example/a.png"}, []string(events[0].Images))
	require.NoError(t, mock.ExpectationsWereMet())
}
