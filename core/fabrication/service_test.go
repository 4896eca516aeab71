package fabrication_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
	inmemdb "github.com/Kris-Young-Kim/co-AT-sub000/storage/database/inmem"
)

var (
	now    = time.Date(2026, time.May, 20, 3, 0, 0, 0, time.UTC)
	staff  = core.Actor{UserID: uuid.NewString(), Roles: []string{core.RoleStaff}}
	viewer = core.Actor{UserID: uuid.NewString(), Roles: []string{core.RoleViewer}}
)

type fakeScheduler struct {
	entries []schedule.NewEntry
	err     error
}

func (s *fakeScheduler) Create(_ context.Context, _ core.Actor, ne schedule.NewEntry) (schedule.Entry, error) {
	if s.err != nil {
		return schedule.Entry{}, s.err
	}
	s.entries = append(s.entries, ne)
	return schedule.Entry{ID: uuid.NewString(), Kind: ne.Kind, Date: ne.Date}, nil
}

type testEnv struct {
	ctx       context.Context
	db        *inmemdb.DB
	repo      fabrication.Repository
	equipRepo equipment.Repository
	limits    *limit.Evaluator
	scheduler *fakeScheduler
	svc       *fabrication.Service
	clientID  string
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	origNow := core.NowFunc
	core.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { core.NowFunc = origNow })

	db := inmemdb.Open()
	env := &testEnv{
		ctx:       context.Background(),
		db:        db,
		repo:      inmemdb.NewFabricationRepository(db),
		equipRepo: inmemdb.NewEquipmentRepository(db),
		scheduler: &fakeScheduler{},
	}
	env.limits = limit.NewEvaluator(inmemdb.NewLimitStore(db), limit.Options{
		CustomMakeCount:        2,
		CustomMakeCost:         100000,
		RepairCost:             100000,
		MaterialCostRatio:      0.7,
		LegacyApplicationCount: true,
	}, nil, nil)
	clientRepo := inmemdb.NewClientRepository(db)
	env.svc = fabrication.NewService(db, env.repo, clientRepo, env.equipRepo, env.limits, env.scheduler, nil, nil)

	c, err := clientRepo.CreateClient(env.ctx, client.Client{ID: uuid.NewString(), Name: "Kim Minji", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	env.clientID = c.ID
	return env
}

func (env *testEnv) seedJob(t *testing.T, status string, materials *int64) fabrication.Job {
	t.Helper()
	job, err := env.repo.CreateJob(env.ctx, fabrication.Job{
		ID:             uuid.NewString(),
		ClientID:       env.clientID,
		Title:          "wheelchair seat",
		ProgressStatus: status,
		CostMaterials:  null.Int64FromPtr(materials),
		CreatedAt:      now.AddDate(0, -2, 0),
		UpdatedAt:      now.AddDate(0, -2, 0),
	})
	require.NoError(t, err)
	return job
}

func (env *testEnv) seedEquipment(t *testing.T, status string) equipment.Equipment {
	t.Helper()
	eq, err := env.equipRepo.CreateEquipment(env.ctx, equipment.Equipment{
		ID:        uuid.NewString(),
		Name:      "3D printer",
		Type:      "printer",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return eq
}

func (env *testEnv) events(t *testing.T, jobID string) []fabrication.ProgressEvent {
	t.Helper()
	evs, err := env.repo.QueryProgressEvents(env.ctx, jobID)
	require.NoError(t, err)
	return evs
}

func (env *testEnv) jobs(t *testing.T) []fabrication.Job {
	t.Helper()
	jobs, err := env.repo.QueryJobs(env.ctx, fabrication.QueryFilter{ClientID: env.clientID})
	require.NoError(t, err)
	return jobs
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func TestCountedStatusesAreProgressStatuses(t *testing.T) {
	for _, st := range limit.CountedStatuses {
		assert.Contains(t, fabrication.Statuses, st)
		assert.NotEqual(t, fabrication.StatusDesign, st)
		assert.NotEqual(t, fabrication.StatusCancelled, st)
	}
}

func TestService_Create(t *testing.T) {
	t.Run("prior completed job within both limits", func(t *testing.T) {
		env := setup(t)
		env.seedJob(t, fabrication.StatusCompleted, int64Ptr(40000))

		cost, err := env.limits.CustomMakeCost(env.ctx, env.clientID, 50000, 2026)
		require.NoError(t, err)
		assert.Equal(t, int64(40000), cost.CurrentTotal)
		assert.Equal(t, int64(90000), cost.NewTotal)
		assert.False(t, cost.IsExceeded)

		count, err := env.limits.CustomLimit(env.ctx, env.clientID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 1, count.CurrentCount)
		assert.False(t, count.IsExceeded)

		job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{
			ClientID:      env.clientID,
			Title:         "custom cushion",
			CostMaterials: int64Ptr(50000),
		})
		require.NoError(t, err)
		assert.Equal(t, fabrication.StatusDesign, job.ProgressStatus)
		assert.Equal(t, 0, job.ProgressPercentage)
		assert.Equal(t, int64(50000), job.CostTotal.Int64)
		assert.Len(t, env.jobs(t), 2)

		evs := env.events(t, job.ID)
		require.Len(t, evs, 1)
		assert.Equal(t, fabrication.StatusDesign, evs[0].Status)
		assert.Equal(t, 0, evs[0].Percentage)
		assert.Equal(t, staff.UserID, evs[0].StaffID.String)
		assert.Empty(t, env.scheduler.entries)
	})

	t.Run("count limit reached", func(t *testing.T) {
		env := setup(t)
		env.seedJob(t, fabrication.StatusManufacturing, nil)
		env.seedJob(t, fabrication.StatusCompleted, nil)

		_, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
		require.Error(t, err)
		assert.Equal(t, core.KindLimitExceeded, core.KindOf(err))
		limErr, ok := errors.Cause(err).(*core.LimitExceededError)
		require.True(t, ok)
		assert.Equal(t, limit.CheckCustomMakeCount, limErr.Check)
		assert.Equal(t, int64(2), limErr.Current)
		assert.Equal(t, int64(2), limErr.Limit)
		assert.Len(t, env.jobs(t), 2)
	})

	t.Run("design and cancelled jobs are not counted", func(t *testing.T) {
		env := setup(t)
		env.seedJob(t, fabrication.StatusDesign, nil)
		env.seedJob(t, fabrication.StatusCancelled, nil)
		env.seedJob(t, fabrication.StatusDelivery, nil)

		_, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
		require.NoError(t, err)
	})

	t.Run("material cost limit exceeded", func(t *testing.T) {
		env := setup(t)
		env.seedJob(t, fabrication.StatusInspection, int64Ptr(50000))

		_, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{
			ClientID:      env.clientID,
			Title:         "custom cushion",
			CostMaterials: int64Ptr(60000),
		})
		require.Error(t, err)
		limErr, ok := errors.Cause(err).(*core.LimitExceededError)
		require.True(t, ok)
		assert.Equal(t, limit.CheckCustomMakeCost, limErr.Check)
		assert.Equal(t, int64(50000), limErr.Current)
		assert.Equal(t, int64(110000), limErr.New)
		assert.Equal(t, int64(100000), limErr.Limit)
		assert.Contains(t, limErr.Error(), "₩110,000")
		assert.Len(t, env.jobs(t), 1)
	})

	t.Run("total only is estimated at the material ratio", func(t *testing.T) {
		env := setup(t)
		env.seedJob(t, fabrication.StatusCompleted, int64Ptr(40000))

		// 0.7 * 90000 = 63000, 40000 + 63000 > 100000
		_, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{
			ClientID:  env.clientID,
			Title:     "walker",
			CostTotal: int64Ptr(90000),
		})
		assert.Equal(t, core.KindLimitExceeded, core.KindOf(err))
	})

	t.Run("configured reporting year overrides the clock", func(t *testing.T) {
		env := setup(t)
		env.limits = limit.NewEvaluator(inmemdb.NewLimitStore(env.db), limit.Options{
			CustomMakeCount:   2,
			CustomMakeCost:    100000,
			MaterialCostRatio: 0.7,
			ReportingYear:     2025,
		}, nil, nil)
		env.svc = fabrication.NewService(env.db, env.repo, inmemdb.NewClientRepository(env.db), env.equipRepo, env.limits, env.scheduler, nil, nil)
		lastYear := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 2; i++ {
			_, err := env.repo.CreateJob(env.ctx, fabrication.Job{
				ID:             uuid.NewString(),
				ClientID:       env.clientID,
				Title:          "standing frame",
				ProgressStatus: fabrication.StatusCompleted,
				CreatedAt:      lastYear,
				UpdatedAt:      lastYear,
			})
			require.NoError(t, err)
		}
		assert.Equal(t, 2025, env.limits.YearOf(now))

		_, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
		assert.Equal(t, core.KindLimitExceeded, core.KindOf(err))
		assert.Len(t, env.jobs(t), 2)
	})

	t.Run("applications of another sub-category are not counted", func(t *testing.T) {
		env := setup(t)
		env.limits = limit.NewEvaluator(inmemdb.NewLimitStore(env.db), limit.Options{
			CustomMakeCount:        2,
			CustomMakeCost:         100000,
			MaterialCostRatio:      0.7,
			LegacyApplicationCount: true,
			ApplicationSubCategory: "seating",
		}, nil, nil)
		env.svc = fabrication.NewService(env.db, env.repo, inmemdb.NewClientRepository(env.db), env.equipRepo, env.limits, env.scheduler, nil, nil)
		appRepo := inmemdb.NewApplicationRepository(env.db)
		for _, sub := range []string{"seating", "orthosis"} {
			_, err := appRepo.CreateApplication(env.ctx, application.Application{
				ID:          uuid.NewString(),
				ClientID:    env.clientID,
				Category:    application.CategoryCustomMake,
				SubCategory: sub,
				Status:      application.StatusReceived,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			require.NoError(t, err)
		}

		count, err := env.limits.CustomLimit(env.ctx, env.clientID, 2026)
		require.NoError(t, err)
		assert.Equal(t, 1, count.CurrentCount)

		_, err = env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
		require.NoError(t, err)
	})

	t.Run("unknown client", func(t *testing.T) {
		env := setup(t)
		_, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: uuid.NewString(), Title: "splint"})
		assert.Equal(t, core.KindNotFound, core.KindOf(err))
	})

	t.Run("viewer is denied", func(t *testing.T) {
		env := setup(t)
		_, err := env.svc.Create(env.ctx, viewer, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
		assert.Equal(t, core.KindAuthorizationDenied, core.KindOf(err))
		assert.Empty(t, env.jobs(t))
	})

	t.Run("failed progress event rolls the job back", func(t *testing.T) {
		env := setup(t)
		env.db.FailOn("CreateProgressEvent", errors.New("disk full"))

		_, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
		assert.Equal(t, core.KindPersistenceFailure, core.KindOf(err))
		assert.Empty(t, env.jobs(t))
	})

	t.Run("expected completion date is scheduled", func(t *testing.T) {
		env := setup(t)
		due := now.AddDate(0, 1, 0)
		staffID := uuid.NewString()

		job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{
			ClientID:               env.clientID,
			Title:                  "splint",
			AssignedStaffID:        &staffID,
			ExpectedCompletionDate: &due,
		})
		require.NoError(t, err)
		require.Len(t, env.scheduler.entries, 1)
		entry := env.scheduler.entries[0]
		assert.Equal(t, schedule.KindExpectedCompletion, entry.Kind)
		assert.True(t, due.Equal(entry.Date))
		assert.Equal(t, job.ID, entry.CustomMakeID.String)
		assert.Equal(t, staffID, entry.AssigneeID.String)
	})

	t.Run("schedule failure keeps the job", func(t *testing.T) {
		env := setup(t)
		env.scheduler.err = errors.New("calendar down")
		due := now.AddDate(0, 1, 0)

		_, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint", ExpectedCompletionDate: &due})
		require.NoError(t, err)
		assert.Len(t, env.jobs(t), 1)
	})
}

func TestService_UpdateProgress(t *testing.T) {
	env := setup(t)
	job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
	require.NoError(t, err)
	start := now.AddDate(0, 0, 7)

	tests := []struct {
		name        string
		update      fabrication.ProgressUpdate
		wantStatus  string
		wantPercent int
		wantEvents  int
		wantKinds   []string
	}{
		{
			name:        "percentage only keeps the status",
			update:      fabrication.ProgressUpdate{Percentage: intPtr(20)},
			wantStatus:  fabrication.StatusDesign,
			wantPercent: 20,
			wantEvents:  2,
		},
		{
			name: "status and manufacturing start",
			update: fabrication.ProgressUpdate{
				Status:                 strPtr(fabrication.StatusManufacturing),
				ManufacturingStartDate: &start,
			},
			wantStatus:  fabrication.StatusManufacturing,
			wantPercent: 20,
			wantEvents:  3,
			wantKinds:   []string{schedule.KindManufacturingStart},
		},
		{
			name:        "same start date is not rescheduled",
			update:      fabrication.ProgressUpdate{ManufacturingStartDate: &start, Notes: strPtr("  sanded  ")},
			wantStatus:  fabrication.StatusManufacturing,
			wantPercent: 20,
			wantEvents:  4,
			wantKinds:   []string{schedule.KindManufacturingStart},
		},
		{
			name:        "notes only still appends an event",
			update:      fabrication.ProgressUpdate{Notes: strPtr("waiting on parts")},
			wantStatus:  fabrication.StatusManufacturing,
			wantPercent: 20,
			wantEvents:  5,
			wantKinds:   []string{schedule.KindManufacturingStart},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			updated, err := env.svc.UpdateProgress(env.ctx, staff, job.ID, tc.update)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, updated.ProgressStatus)
			assert.Equal(t, tc.wantPercent, updated.ProgressPercentage)

			evs := env.events(t, job.ID)
			require.Len(t, evs, tc.wantEvents)
			last := evs[len(evs)-1]
			assert.Equal(t, tc.wantStatus, last.Status)
			assert.Equal(t, tc.wantPercent, last.Percentage)

			kinds := make([]string, 0)
			for _, e := range env.scheduler.entries {
				kinds = append(kinds, e.Kind)
			}
			if tc.wantKinds == nil {
				assert.Empty(t, kinds)
			} else {
				assert.Equal(t, tc.wantKinds, kinds)
			}
		})
	}

	t.Run("missing job", func(t *testing.T) {
		_, err := env.svc.UpdateProgress(env.ctx, staff, uuid.NewString(), fabrication.ProgressUpdate{Percentage: intPtr(10)})
		assert.Equal(t, core.KindNotFound, core.KindOf(err))
	})

	t.Run("failed event leaves the job untouched", func(t *testing.T) {
		env.db.FailOn("CreateProgressEvent", errors.New("disk full"))
		defer env.db.FailOn("CreateProgressEvent", nil)

		_, err := env.svc.UpdateProgress(env.ctx, staff, job.ID, fabrication.ProgressUpdate{Percentage: intPtr(90)})
		require.Error(t, err)
		stored, err := env.repo.GetJob(env.ctx, job.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 20, stored.ProgressPercentage)
	})
}

func TestService_UpdateProgress_Terminal(t *testing.T) {
	env := setup(t)
	eq := env.seedEquipment(t, equipment.StatusAvailable)
	job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
	require.NoError(t, err)
	_, err = env.svc.AssignEquipment(env.ctx, staff, job.ID, eq.ID)
	require.NoError(t, err)

	done, err := env.svc.UpdateProgress(env.ctx, staff, job.ID, fabrication.ProgressUpdate{
		Status:     strPtr(fabrication.StatusCompleted),
		Percentage: intPtr(100),
	})
	require.NoError(t, err)
	assert.False(t, done.EquipmentID.Valid)

	released, err := env.equipRepo.GetEquipment(env.ctx, eq.ID, false)
	require.NoError(t, err)
	assert.Equal(t, equipment.StatusAvailable, released.Status)

	_, err = env.svc.UpdateProgress(env.ctx, staff, job.ID, fabrication.ProgressUpdate{Percentage: intPtr(50)})
	assert.Equal(t, core.KindValidation, core.KindOf(err))
	assert.Len(t, env.events(t, job.ID), 2)
}

func TestService_AssignEquipment(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantKind core.ErrorKind
	}{
		{name: "available", status: equipment.StatusAvailable},
		{name: "reserved", status: equipment.StatusReserved},
		{name: "in use", status: equipment.StatusInUse, wantKind: core.KindResourceUnavailable},
		{name: "maintenance", status: equipment.StatusMaintenance, wantKind: core.KindResourceUnavailable},
		{name: "out of service", status: equipment.StatusOutOfService, wantKind: core.KindResourceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := setup(t)
			eq := env.seedEquipment(t, tc.status)
			job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
			require.NoError(t, err)

			assigned, err := env.svc.AssignEquipment(env.ctx, staff, job.ID, eq.ID)
			stored, getErr := env.equipRepo.GetEquipment(env.ctx, eq.ID, false)
			require.NoError(t, getErr)
			storedJob, getErr := env.repo.GetJob(env.ctx, job.ID, false)
			require.NoError(t, getErr)

			if tc.wantKind != "" {
				assert.Equal(t, tc.wantKind, core.KindOf(err))
				assert.Equal(t, tc.status, stored.Status)
				assert.False(t, storedJob.EquipmentID.Valid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, eq.ID, assigned.EquipmentID.String)
			assert.Equal(t, eq.ID, storedJob.EquipmentID.String)
			assert.Equal(t, equipment.StatusInUse, stored.Status)
		})
	}
}

func TestService_AssignEquipment_Idempotent(t *testing.T) {
	env := setup(t)
	eq := env.seedEquipment(t, equipment.StatusAvailable)
	other := env.seedEquipment(t, equipment.StatusAvailable)
	job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
	require.NoError(t, err)

	first, err := env.svc.AssignEquipment(env.ctx, staff, job.ID, eq.ID)
	require.NoError(t, err)
	second, err := env.svc.AssignEquipment(env.ctx, staff, job.ID, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := env.equipRepo.GetEquipment(env.ctx, eq.ID, false)
	require.NoError(t, err)
	assert.Equal(t, equipment.StatusInUse, stored.Status)

	_, err = env.svc.AssignEquipment(env.ctx, staff, job.ID, other.ID)
	assert.Equal(t, core.KindValidation, core.KindOf(err))
	stored, err = env.equipRepo.GetEquipment(env.ctx, other.ID, false)
	require.NoError(t, err)
	assert.Equal(t, equipment.StatusAvailable, stored.Status)

	t.Run("another job cannot take it", func(t *testing.T) {
		job2, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "cushion"})
		require.NoError(t, err)
		_, err = env.svc.AssignEquipment(env.ctx, staff, job2.ID, eq.ID)
		assert.Equal(t, core.KindResourceUnavailable, core.KindOf(err))
	})
}

func TestService_AssignEquipment_Rollback(t *testing.T) {
	env := setup(t)
	eq := env.seedEquipment(t, equipment.StatusAvailable)
	job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
	require.NoError(t, err)

	env.db.FailOn("UpdateJob", errors.New("deadlock detected"))
	_, err = env.svc.AssignEquipment(env.ctx, staff, job.ID, eq.ID)
	assert.Equal(t, core.KindPersistenceFailure, core.KindOf(err))

	stored, err := env.equipRepo.GetEquipment(env.ctx, eq.ID, false)
	require.NoError(t, err)
	assert.Equal(t, equipment.StatusAvailable, stored.Status)
}

func TestService_ReleaseEquipment(t *testing.T) {
	env := setup(t)
	eq := env.seedEquipment(t, equipment.StatusAvailable)
	job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
	require.NoError(t, err)

	noop, err := env.svc.ReleaseEquipment(env.ctx, staff, job.ID)
	require.NoError(t, err)
	assert.False(t, noop.EquipmentID.Valid)

	_, err = env.svc.AssignEquipment(env.ctx, staff, job.ID, eq.ID)
	require.NoError(t, err)
	released, err := env.svc.ReleaseEquipment(env.ctx, staff, job.ID)
	require.NoError(t, err)
	assert.False(t, released.EquipmentID.Valid)

	stored, err := env.equipRepo.GetEquipment(env.ctx, eq.ID, false)
	require.NoError(t, err)
	assert.Equal(t, equipment.StatusAvailable, stored.Status)
}

func TestService_ListProgress(t *testing.T) {
	env := setup(t)
	job, err := env.svc.Create(env.ctx, staff, fabrication.NewJob{ClientID: env.clientID, Title: "splint"})
	require.NoError(t, err)
	_, err = env.svc.UpdateProgress(env.ctx, staff, job.ID, fabrication.ProgressUpdate{Status: strPtr(fabrication.StatusManufacturing)})
	require.NoError(t, err)

	evs, err := env.svc.ListProgress(env.ctx, staff, job.ID)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, fabrication.StatusDesign, evs[0].Status)
	assert.Equal(t, fabrication.StatusManufacturing, evs[1].Status)

	_, err = env.svc.ListProgress(env.ctx, viewer, job.ID)
	assert.Equal(t, core.KindAuthorizationDenied, core.KindOf(err))
	_, err = env.svc.ListProgress(env.ctx, staff, uuid.NewString())
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}
