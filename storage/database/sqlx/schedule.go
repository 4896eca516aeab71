package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
)

const scheduleColumns = "id, client_id, application_id, custom_make_id, assignee_id, kind, scheduled_date, note, created_by, created_at"

type scheduleRepository struct {
	repository
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(exec core.DBExecutor) *scheduleRepository {
	return &scheduleRepository{repository{exec: exec}}
}

func (repo scheduleRepository) CreateEntry(ctx context.Context, e schedule.Entry, exec ...core.DBExecutor) (schedule.Entry, error) {
	q := `INSERT INTO schedules (` + scheduleColumns + `)
		VALUES (:id, :client_id, :application_id, :custom_make_id, :assignee_id, :kind, :scheduled_date, :note, :created_by, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, e); err != nil {
		return schedule.Entry{}, errors.Wrap(err, "inserting schedule entry")
	}
	return e, nil
}

func (repo scheduleRepository) QueryEntries(ctx context.Context, filter schedule.QueryFilter, exec ...core.DBExecutor) ([]schedule.Entry, error) {
	qb := psql.Select(scheduleColumns).From("schedules").
		Where(sq.GtOrEq{"scheduled_date": filter.From}).
		Where(sq.Lt{"scheduled_date": filter.To}).
		OrderBy("scheduled_date")
	if filter.AssigneeID != "" {
		qb = qb.Where(sq.Eq{"assignee_id": filter.AssigneeID})
	}
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building schedule entries query")
	}

	entries := make([]schedule.Entry, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &entries, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting schedule entries")
	}
	return entries, nil
}
