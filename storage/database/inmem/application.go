package inmemdb

import (
	"context"
	"sort"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
)

type applicationRepository struct {
	db *DB
}

var _ application.Repository = (*applicationRepository)(nil) // interface compliance check

func NewApplicationRepository(db *DB) application.Repository {
	return &applicationRepository{db: db}
}

func (repo *applicationRepository) CreateApplication(ctx context.Context, app application.Application, _ ...core.DBExecutor) (application.Application, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.applications[app.ID] = app
	return app, nil
}

func (repo *applicationRepository) GetApplication(ctx context.Context, id string, _ ...core.DBExecutor) (application.Application, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if app, ok := repo.db.applications[id]; ok {
		return app, nil
	}
	return application.Application{}, core.NewNotFoundError("application", id)
}

func (repo *applicationRepository) QueryApplications(ctx context.Context, filter application.QueryFilter, _ ...core.DBExecutor) ([]application.Application, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	apps := make([]application.Application, 0)
	for _, app := range repo.db.applications {
		if filter.ClientID != "" && app.ClientID != filter.ClientID {
			continue
		}
		if filter.Category != "" && app.Category != filter.Category {
			continue
		}
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
	return apps, nil
}

func (repo *applicationRepository) CreateServiceLog(ctx context.Context, log application.ServiceLog, _ ...core.DBExecutor) (application.ServiceLog, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.failure("CreateServiceLog"); err != nil {
		return application.ServiceLog{}, err
	}
	repo.db.serviceLogs[log.ID] = log
	return log, nil
}

func (repo *applicationRepository) QueryServiceLogs(ctx context.Context, applicationID string, _ ...core.DBExecutor) ([]application.ServiceLog, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	logs := make([]application.ServiceLog, 0)
	for _, sl := range repo.db.serviceLogs {
		if sl.ApplicationID == applicationID {
			logs = append(logs, sl)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ServiceDate.Before(logs[j].ServiceDate) })
	return logs, nil
}
