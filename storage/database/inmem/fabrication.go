package inmemdb

import (
	"context"
	"sort"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
)

type fabricationRepository struct {
	db *DB
}

var _ fabrication.Repository = (*fabricationRepository)(nil) // interface compliance check

func NewFabricationRepository(db *DB) fabrication.Repository {
	return &fabricationRepository{db: db}
}

func (repo *fabricationRepository) CreateJob(ctx context.Context, job fabrication.Job, _ ...core.DBExecutor) (fabrication.Job, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.failure("CreateJob"); err != nil {
		return fabrication.Job{}, err
	}
	repo.db.jobs[job.ID] = job
	return job, nil
}

func (repo *fabricationRepository) GetJob(ctx context.Context, id string, _ bool, _ ...core.DBExecutor) (fabrication.Job, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if job, ok := repo.db.jobs[id]; ok {
		return job, nil
	}
	return fabrication.Job{}, core.NewNotFoundError("custom make", id)
}

func (repo *fabricationRepository) UpdateJob(ctx context.Context, job fabrication.Job, _ ...core.DBExecutor) (fabrication.Job, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.failure("UpdateJob"); err != nil {
		return fabrication.Job{}, err
	}
	if _, ok := repo.db.jobs[job.ID]; !ok {
		return fabrication.Job{}, core.NewNotFoundError("custom make", job.ID)
	}
	repo.db.jobs[job.ID] = job
	return job, nil
}

func (repo *fabricationRepository) QueryJobs(ctx context.Context, filter fabrication.QueryFilter, _ ...core.DBExecutor) ([]fabrication.Job, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	jobs := make([]fabrication.Job, 0)
	for _, job := range repo.db.jobs {
		if filter.ClientID != "" && job.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && job.ProgressStatus != filter.Status {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

func (repo *fabricationRepository) CreateProgressEvent(ctx context.Context, ev fabrication.ProgressEvent, _ ...core.DBExecutor) (fabrication.ProgressEvent, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.failure("CreateProgressEvent"); err != nil {
		return fabrication.ProgressEvent{}, err
	}
	repo.db.events = append(repo.db.events, ev)
	return ev, nil
}

func (repo *fabricationRepository) QueryProgressEvents(ctx context.Context, jobID string, _ ...core.DBExecutor) ([]fabrication.ProgressEvent, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]fabrication.ProgressEvent, 0)
	for _, ev := range repo.db.events {
		if ev.CustomMakeID == jobID {
			events = append(events, ev)
		}
	}
	return events, nil
}
