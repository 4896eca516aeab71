package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
)

const (
	applicationColumns = "id, client_id, category, sub_category, status, description, created_at, updated_at"
	serviceLogColumns  = "id, application_id, service_type, description, cost_total, staff_id, service_date, created_at"
)

type applicationRepository struct {
	repository
}

var _ application.Repository = (*applicationRepository)(nil) // interface compliance check

func NewApplicationRepository(exec core.DBExecutor) *applicationRepository {
	return &applicationRepository{repository{exec: exec}}
}

func (repo applicationRepository) CreateApplication(ctx context.Context, app application.Application, exec ...core.DBExecutor) (application.Application, error) {
	q := `INSERT INTO applications (` + applicationColumns + `)
		VALUES (:id, :client_id, :category, :sub_category, :status, :description, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, app); err != nil {
		return application.Application{}, errors.Wrap(err, "inserting application")
	}
	return app, nil
}

func (repo applicationRepository) GetApplication(ctx context.Context, id string, exec ...core.DBExecutor) (application.Application, error) {
	var app application.Application
	q := "SELECT " + applicationColumns + " FROM applications WHERE id = $1"
	if err := repo.getExec(exec).GetContext(ctx, &app, q, id); err != nil {
		return application.Application{}, trapNoRowsErr(err, "application", id, "selecting application")
	}
	return app, nil
}

func (repo applicationRepository) QueryApplications(ctx context.Context, filter application.QueryFilter, exec ...core.DBExecutor) ([]application.Application, error) {
	qb := psql.Select(applicationColumns).From("applications").OrderBy("created_at DESC")
	if filter.ClientID != "" {
		qb = qb.Where(sq.Eq{"client_id": filter.ClientID})
	}
	if filter.Category != "" {
		qb = qb.Where(sq.Eq{"category": filter.Category})
	}
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building applications query")
	}

	apps := make([]application.Application, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &apps, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting applications")
	}
	return apps, nil
}

func (repo applicationRepository) CreateServiceLog(ctx context.Context, log application.ServiceLog, exec ...core.DBExecutor) (application.ServiceLog, error) {
	q := `INSERT INTO service_logs (` + serviceLogColumns + `)
		VALUES (:id, :application_id, :service_type, :description, :cost_total, :staff_id, :service_date, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.getExec(exec), q, log); err != nil {
		return application.ServiceLog{}, errors.Wrap(err, "inserting service log")
	}
	return log, nil
}

func (repo applicationRepository) QueryServiceLogs(ctx context.Context, applicationID string, exec ...core.DBExecutor) ([]application.ServiceLog, error) {
	logs := make([]application.ServiceLog, 0)
	q := "SELECT " + serviceLogColumns + " FROM service_logs WHERE application_id = $1 ORDER BY service_date"
	if err := repo.getExec(exec).SelectContext(ctx, &logs, q, applicationID); err != nil {
		return nil, errors.Wrap(err, "selecting service logs")
	}
	return logs, nil
}
