package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
)

const (
	jobColumns = `id, client_id, application_id, title, assigned_staff_id, equipment_id, progress_status,
		progress_percentage, cost_materials, cost_labor, cost_equipment, cost_other, cost_total,
		expected_completion_date, manufacturing_start_date, delivery_date, notes, created_at, updated_at`
	progressColumns = "id, custom_make_id, staff_id, progress_status, progress_percentage, notes, images, created_at"
)

type fabricationRepository struct {
	repository
}

var _ fabrication.Repository = (*fabricationRepository)(nil) // interface compliance check

func NewFabricationRepository(exec core.DBExecutor) *fabricationRepository {
	return &fabricationRepository{repository{exec: exec}}
}

func (repo fabricationRepository) CreateJob(ctx context.Context, job fabrication.Job, exec ...core.DBExecutor) (fabrication.Job, error) {
	q := `INSERT INTO custom_makes (` + jobColumns + `)
		VALUES (:id, :client_id, :application_id, :title, :assigned_staff_id, :equipment_id, :progress_status,
		:progress_percentage, :cost_materials, :cost_labor, :cost_equipment, :cost_other, :cost_total,
		:expected_completion_date, :manufacturing_start_date, :delivery_date, :notes, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, job); err != nil {
		return fabrication.Job{}, errors.Wrap(err, "inserting custom make")
	}
	return job, nil
}

func (repo fabricationRepository) GetJob(ctx context.Context, id string, forUpdate bool, exec ...core.DBExecutor) (fabrication.Job, error) {
	var job fabrication.Job
	q := "SELECT " + jobColumns + " FROM custom_makes WHERE id = $1"
	if forUpdate {
		q += " FOR UPDATE"
	}
	if err := repo.getExec(exec).GetContext(ctx, &job, q, id); err != nil {
		return fabrication.Job{}, trapNoRowsErr(err, "custom make", id, "selecting custom make")
	}
	return job, nil
}

func (repo fabricationRepository) UpdateJob(ctx context.Context, job fabrication.Job, exec ...core.DBExecutor) (fabrication.Job, error) {
	q := `UPDATE custom_makes SET equipment_id = :equipment_id, progress_status = :progress_status,
		progress_percentage = :progress_percentage, manufacturing_start_date = :manufacturing_start_date,
		delivery_date = :delivery_date, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, job)
	if err != nil {
		return fabrication.Job{}, errors.Wrap(err, "updating custom make")
	}
	if err = checkAffected(res, "custom make", job.ID); err != nil {
		return fabrication.Job{}, err
	}
	return job, nil
}

func (repo fabricationRepository) QueryJobs(ctx context.Context, filter fabrication.QueryFilter, exec ...core.DBExecutor) ([]fabrication.Job, error) {
	qb := psql.Select(jobColumns).From("custom_makes").OrderBy("created_at DESC")
	if filter.ClientID != "" {
		qb = qb.Where(sq.Eq{"client_id": filter.ClientID})
	}
	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"progress_status": filter.Status})
	}
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building custom makes query")
	}

	jobs := make([]fabrication.Job, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &jobs, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting custom makes")
	}
	return jobs, nil
}

func (repo fabricationRepository) CreateProgressEvent(ctx context.Context, ev fabrication.ProgressEvent, exec ...core.DBExecutor) (fabrication.ProgressEvent, error) {
	q := `INSERT INTO custom_make_progress (` + progressColumns + `)
		VALUES (:id, :custom_make_id, :staff_id, :progress_status, :progress_percentage, :notes, :images, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, ev); err != nil {
		return fabrication.ProgressEvent{}, errors.Wrap(err, "inserting progress event")
	}
	return ev, nil
}

func (repo fabricationRepository) QueryProgressEvents(ctx context.Context, jobID string, exec ...core.DBExecutor) ([]fabrication.ProgressEvent, error) {
	events := make([]fabrication.ProgressEvent, 0)
	q := "SELECT " + progressColumns + " FROM custom_make_progress WHERE custom_make_id = $1 ORDER BY created_at, id"
	if err := repo.getExec(exec).SelectContext(ctx, &events, q, jobID); err != nil {
		return nil, errors.Wrap(err, "selecting progress events")
	}
	return events, nil
}
