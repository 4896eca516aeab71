package fabrication

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
)

const (
	createdNote       = "custom make created"
	equipmentResource = "equipment"

	errTerminal   = "custom make is %s, no further changes allowed"
	errHoldsOther = "custom make already holds equipment %s, release it first"

	outcomeAssigned = "assigned"
	outcomeNoop     = "noop"
	outcomeRefused  = "unavailable"
	outcomeReleased = "released"
)

type (
	Repository interface {
		CreateJob(ctx context.Context, job Job, exec ...core.DBExecutor) (Job, error)
		// GetJob returns a *core.NotFoundError when no row matches id.
		// forUpdate locks the row until the surrounding transaction ends.
		GetJob(ctx context.Context, id string, forUpdate bool, exec ...core.DBExecutor) (Job, error)
		UpdateJob(ctx context.Context, job Job, exec ...core.DBExecutor) (Job, error)
		QueryJobs(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Job, error)
		CreateProgressEvent(ctx context.Context, ev ProgressEvent, exec ...core.DBExecutor) (ProgressEvent, error)
		// QueryProgressEvents returns the history of a job, oldest first.
		QueryProgressEvents(ctx context.Context, jobID string, exec ...core.DBExecutor) ([]ProgressEvent, error)
	}

	// Scheduler puts derived dates on the calendar.
	Scheduler interface {
		Create(ctx context.Context, actor core.Actor, ne schedule.NewEntry) (schedule.Entry, error)
	}

	Service struct {
		tx         core.TxRunner
		repo       Repository
		clientRepo client.Repository
		equipRepo  equipment.Repository
		limits     *limit.Evaluator
		scheduler  Scheduler
		logger     core.Logger
		metrics    core.Metrics
	}
)

func NewService(
	tx core.TxRunner,
	repo Repository,
	clientRepo client.Repository,
	equipRepo equipment.Repository,
	limits *limit.Evaluator,
	scheduler Scheduler,
	logger core.Logger,
	metrics core.Metrics,
) *Service {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	if metrics == nil {
		metrics = core.NewNopMetrics()
	}
	return &Service{
		tx:         tx,
		repo:       repo,
		clientRepo: clientRepo,
		equipRepo:  equipRepo,
		limits:     limits,
		scheduler:  scheduler,
		logger:     logger,
		metrics:    metrics,
	}
}

// Create opens a custom make at design/0%. It is refused with a *core.LimitExceededError when the
// client already reached its yearly count, or when the job's material cost would breach the yearly
// material-cost cap. The checks and the inserts run under the client's custom make lock in one
// transaction.
func (svc *Service) Create(ctx context.Context, actor core.Actor, nj NewJob) (Job, error) {
	if err := core.Authorize(actor); err != nil {
		return Job{}, err
	}

	now := core.NowFunc().UTC()
	job := Job{
		ID:                 uuid.NewString(),
		ClientID:           nj.ClientID,
		ApplicationID:      null.StringFromPtr(nj.ApplicationID),
		Title:              nj.Title,
		AssignedStaffID:    null.StringFromPtr(nj.AssignedStaffID),
		ProgressStatus:     StatusDesign,
		ProgressPercentage: 0,
		CostMaterials:      null.Int64FromPtr(nj.CostMaterials),
		CostLabor:          null.Int64FromPtr(nj.CostLabor),
		CostEquipment:      null.Int64FromPtr(nj.CostEquipment),
		CostOther:          null.Int64FromPtr(nj.CostOther),
		CostTotal:          null.Int64FromPtr(nj.total()),
		Notes:              nj.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if nj.ExpectedCompletionDate != nil {
		job.ExpectedCompletionDate = null.TimeFrom(nj.ExpectedCompletionDate.UTC())
	}
	year := svc.limits.YearOf(now)
	proposed := svc.limits.MaterialCost(job.CostMaterials.Ptr(), job.CostTotal.Ptr())

	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		if _, err := svc.clientRepo.GetClient(ctx, job.ClientID, exec); err != nil {
			return err
		}
		if err := svc.limits.Lock(ctx, limit.ScopeCustomMake, job.ClientID, exec); err != nil {
			return err
		}

		count, err := svc.limits.CustomLimit(ctx, job.ClientID, year, exec)
		if err != nil {
			return err
		}
		if err = count.Err(); err != nil {
			return err
		}
		cost, err := svc.limits.CustomMakeCost(ctx, job.ClientID, proposed, year, exec)
		if err != nil {
			return err
		}
		if err = cost.Err(); err != nil {
			return err
		}

		if job, err = svc.repo.CreateJob(ctx, job, exec); err != nil {
			return err
		}
		_, err = svc.repo.CreateProgressEvent(ctx, svc.newEvent(actor, job, null.StringFrom(createdNote), nil), exec)
		return err
	})
	if err != nil {
		return Job{}, pkgerrors.Wrap(err, "creating custom make")
	}
	svc.metrics.ProgressRecorded(job.ProgressStatus)

	if job.ExpectedCompletionDate.Valid {
		svc.schedule(ctx, actor, job, schedule.KindExpectedCompletion, job.ExpectedCompletionDate.Time)
	}
	return job, nil
}

// UpdateProgress applies the supplied fields of pu and appends exactly one progress event carrying
// the resulting status and percentage. Reaching a terminal status releases the held equipment.
func (svc *Service) UpdateProgress(ctx context.Context, actor core.Actor, jobID string, pu ProgressUpdate) (Job, error) {
	if err := core.Authorize(actor); err != nil {
		return Job{}, err
	}

	var job Job
	var prev Job
	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if job, err = svc.repo.GetJob(ctx, jobID, true, exec); err != nil {
			return err
		}
		if IsTerminal(job.ProgressStatus) {
			msg := fmt.Sprintf(errTerminal, job.ProgressStatus)
			return core.NewValidationError(errors.New(msg), core.FieldError{Field: "status", Error: msg})
		}
		prev = job

		if pu.Status != nil {
			if !slices.Contains(Statuses, *pu.Status) {
				return core.NewValidationError(errors.New(statusText), core.FieldError{Field: "status", Error: statusText})
			}
			job.ProgressStatus = *pu.Status
		}
		if pu.Percentage != nil {
			job.ProgressPercentage = *pu.Percentage
		}
		if pu.ManufacturingStartDate != nil {
			job.ManufacturingStartDate = null.TimeFrom(pu.ManufacturingStartDate.UTC())
		}
		if pu.DeliveryDate != nil {
			job.DeliveryDate = null.TimeFrom(pu.DeliveryDate.UTC())
		}
		job.UpdatedAt = core.NowFunc().UTC()

		if IsTerminal(job.ProgressStatus) && job.EquipmentID.Valid {
			if err = svc.release(ctx, &job, exec); err != nil {
				return err
			}
		}
		if job, err = svc.repo.UpdateJob(ctx, job, exec); err != nil {
			return err
		}
		_, err = svc.repo.CreateProgressEvent(ctx, svc.newEvent(actor, job, null.StringFromPtr(pu.Notes), pu.Images), exec)
		return err
	})
	if err != nil {
		return Job{}, pkgerrors.Wrap(err, "updating custom make progress")
	}
	svc.metrics.ProgressRecorded(job.ProgressStatus)

	if dateChanged(prev.ManufacturingStartDate, job.ManufacturingStartDate) {
		svc.schedule(ctx, actor, job, schedule.KindManufacturingStart, job.ManufacturingStartDate.Time)
	}
	if dateChanged(prev.DeliveryDate, job.DeliveryDate) {
		svc.schedule(ctx, actor, job, schedule.KindDelivery, job.DeliveryDate.Time)
	}
	return job, nil
}

// AssignEquipment checks equipment out to a job. Only available or reserved equipment can be
// assigned; assigning the equipment a job already holds is a no-op.
func (svc *Service) AssignEquipment(ctx context.Context, actor core.Actor, jobID, equipmentID string) (Job, error) {
	if err := core.Authorize(actor); err != nil {
		return Job{}, err
	}

	outcome := outcomeAssigned
	var job Job
	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if job, err = svc.repo.GetJob(ctx, jobID, true, exec); err != nil {
			return err
		}
		if job.EquipmentID.Valid && job.EquipmentID.String == equipmentID {
			outcome = outcomeNoop
			return nil
		}
		if IsTerminal(job.ProgressStatus) {
			msg := fmt.Sprintf(errTerminal, job.ProgressStatus)
			return core.NewValidationError(errors.New(msg), core.FieldError{Field: "equipment_id", Error: msg})
		}
		if job.EquipmentID.Valid {
			msg := fmt.Sprintf(errHoldsOther, job.EquipmentID.String)
			return core.NewValidationError(errors.New(msg), core.FieldError{Field: "equipment_id", Error: msg})
		}

		eq, err := svc.equipRepo.GetEquipment(ctx, equipmentID, true, exec)
		if err != nil {
			return err
		}
		if !eq.IsAssignable() {
			outcome = outcomeRefused
			return core.NewUnavailableError(equipmentResource, eq.ID, eq.Status)
		}

		now := core.NowFunc().UTC()
		eq.Status = equipment.StatusInUse
		eq.UpdatedAt = now
		if _, err = svc.equipRepo.UpdateEquipmentStatus(ctx, eq, exec); err != nil {
			return err
		}
		job.EquipmentID = null.StringFrom(eq.ID)
		job.UpdatedAt = now
		job, err = svc.repo.UpdateJob(ctx, job, exec)
		return err
	})
	if outcome != outcomeAssigned || err == nil {
		svc.metrics.EquipmentAssigned(outcome)
	}
	if err != nil {
		return Job{}, pkgerrors.Wrap(err, "assigning equipment")
	}
	return job, nil
}

// ReleaseEquipment checks the job's equipment back in. Releasing a job without equipment is a no-op.
func (svc *Service) ReleaseEquipment(ctx context.Context, actor core.Actor, jobID string) (Job, error) {
	if err := core.Authorize(actor); err != nil {
		return Job{}, err
	}

	var job Job
	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if job, err = svc.repo.GetJob(ctx, jobID, true, exec); err != nil {
			return err
		}
		if !job.EquipmentID.Valid {
			return nil
		}
		if err = svc.release(ctx, &job, exec); err != nil {
			return err
		}
		job.UpdatedAt = core.NowFunc().UTC()
		job, err = svc.repo.UpdateJob(ctx, job, exec)
		return err
	})
	if err != nil {
		return Job{}, pkgerrors.Wrap(err, "releasing equipment")
	}
	return job, nil
}

func (svc *Service) Get(ctx context.Context, actor core.Actor, id string) (Job, error) {
	if err := core.Authorize(actor); err != nil {
		return Job{}, err
	}
	return svc.repo.GetJob(ctx, id, false)
}

func (svc *Service) Query(ctx context.Context, actor core.Actor, filter QueryFilter) ([]Job, error) {
	if err := core.Authorize(actor); err != nil {
		return nil, err
	}
	return svc.repo.QueryJobs(ctx, filter)
}

func (svc *Service) ListProgress(ctx context.Context, actor core.Actor, jobID string) ([]ProgressEvent, error) {
	if err := core.Authorize(actor); err != nil {
		return nil, err
	}
	if _, err := svc.repo.GetJob(ctx, jobID, false); err != nil {
		return nil, err
	}
	return svc.repo.QueryProgressEvents(ctx, jobID)
}

// release flips the job's equipment back to available and detaches it from job.
// Equipment no longer in use (e.g. moved to maintenance meanwhile) keeps its status.
func (svc *Service) release(ctx context.Context, job *Job, exec core.DBExecutor) error {
	eq, err := svc.equipRepo.GetEquipment(ctx, job.EquipmentID.String, true, exec)
	if err != nil {
		return err
	}
	if eq.Status == equipment.StatusInUse {
		eq.Status = equipment.StatusAvailable
		eq.UpdatedAt = core.NowFunc().UTC()
		if _, err = svc.equipRepo.UpdateEquipmentStatus(ctx, eq, exec); err != nil {
			return err
		}
	}
	job.EquipmentID = null.String{}
	svc.metrics.EquipmentAssigned(outcomeReleased)
	return nil
}

func (svc *Service) newEvent(actor core.Actor, job Job, notes null.String, images []string) ProgressEvent {
	if images == nil {
		images = []string{}
	}
	return ProgressEvent{
		ID:           uuid.NewString(),
		CustomMakeID: job.ID,
		StaffID:      null.StringFromPtr(actor.StaffID()),
		Status:       job.ProgressStatus,
		Percentage:   job.ProgressPercentage,
		Notes:        notes,
		Images:       images,
		CreatedAt:    job.UpdatedAt,
	}
}

// schedule runs after the job is committed: a calendar failure is logged and never undoes the job.
func (svc *Service) schedule(ctx context.Context, actor core.Actor, job Job, kind string, date time.Time) {
	if svc.scheduler == nil {
		return
	}
	_, err := svc.scheduler.Create(ctx, actor, schedule.NewEntry{
		ClientID:      job.ClientID,
		ApplicationID: job.ApplicationID,
		CustomMakeID:  null.StringFrom(job.ID),
		AssigneeID:    job.AssignedStaffID,
		Kind:          kind,
		Date:          date,
		Note:          job.Title,
	})
	if err != nil {
		svc.logger.Error(fmt.Sprintf("scheduling %s of custom make %s", kind, job.ID), err)
	}
}

func dateChanged(before, after null.Time) bool {
	if !after.Valid {
		return false
	}
	return !before.Valid || !before.Time.Equal(after.Time)
}
