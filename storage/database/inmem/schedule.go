package inmemdb

import (
	"context"
	"sort"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateEntry(ctx context.Context, e schedule.Entry, _ ...core.DBExecutor) (schedule.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.db.failure("CreateEntry"); err != nil {
		return schedule.Entry{}, err
	}
	repo.db.schedules = append(repo.db.schedules, e)
	return e, nil
}

func (repo *scheduleRepository) QueryEntries(ctx context.Context, filter schedule.QueryFilter, _ ...core.DBExecutor) ([]schedule.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]schedule.Entry, 0)
	for _, e := range repo.db.schedules {
		if e.Date.Before(filter.From) || !e.Date.Before(filter.To) {
			continue
		}
		if filter.AssigneeID != "" && e.AssigneeID.String != filter.AssigneeID {
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}
