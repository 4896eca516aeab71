package inmemdb

import (
	"context"
	"slices"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
)

type limitStore struct {
	db *DB
}

var _ limit.Store = (*limitStore)(nil) // interface compliance check

func NewLimitStore(db *DB) limit.Store {
	return &limitStore{db: db}
}

// Lock is a no-op: RunInTx already serialises every transaction.
func (s *limitStore) Lock(context.Context, string, string, ...core.DBExecutor) error {
	return nil
}

func (s *limitStore) ClientExists(ctx context.Context, clientID string, _ ...core.DBExecutor) (bool, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if err := s.db.failure("ClientExists"); err != nil {
		return false, err
	}
	_, ok := s.db.clients[clientID]
	return ok, nil
}

func (s *limitStore) CountCustomMakes(ctx context.Context, clientID string, statuses []string, w limit.Window, _ ...core.DBExecutor) (int, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if err := s.db.failure("CountCustomMakes"); err != nil {
		return 0, err
	}
	var n int
	for _, job := range s.db.jobs {
		if job.ClientID == clientID && w.Contains(job.CreatedAt) && slices.Contains(statuses, job.ProgressStatus) {
			n++
		}
	}
	return n, nil
}

func (s *limitStore) CountCustomMakeApplications(ctx context.Context, clientID, subCategory string, w limit.Window, _ ...core.DBExecutor) (int, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if err := s.db.failure("CountCustomMakeApplications"); err != nil {
		return 0, err
	}
	var n int
	for _, app := range s.db.applications {
		if app.ClientID == clientID && app.Category == application.CategoryCustomMake &&
			app.Status != application.StatusCancelled && w.Contains(app.CreatedAt) &&
			(subCategory == "" || app.SubCategory == subCategory) {
			n++
		}
	}
	return n, nil
}

func (s *limitStore) QueryCustomMakeCosts(ctx context.Context, clientID string, w limit.Window, _ ...core.DBExecutor) ([]limit.JobCost, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if err := s.db.failure("QueryCustomMakeCosts"); err != nil {
		return nil, err
	}
	costs := make([]limit.JobCost, 0)
	for _, job := range s.db.jobs {
		if job.ClientID == clientID && job.ProgressStatus != fabrication.StatusCancelled && w.Contains(job.CreatedAt) {
			costs = append(costs, limit.JobCost{CostMaterials: job.CostMaterials, CostTotal: job.CostTotal})
		}
	}
	return costs, nil
}

func (s *limitStore) SumRepairCosts(ctx context.Context, clientID string, w limit.Window, _ ...core.DBExecutor) (int64, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if err := s.db.failure("SumRepairCosts"); err != nil {
		return 0, err
	}
	var sum int64
	for _, sl := range s.db.serviceLogs {
		app, ok := s.db.applications[sl.ApplicationID]
		if !ok || app.ClientID != clientID {
			continue
		}
		if sl.ServiceType == application.ServiceTypeRepair && w.Contains(sl.ServiceDate) {
			sum += sl.CostTotal
		}
	}
	return sum, nil
}

func (s *limitStore) QueryRepairApplicationIDs(ctx context.Context, clientID string, _ ...core.DBExecutor) ([]string, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if err := s.db.failure("QueryRepairApplicationIDs"); err != nil {
		return nil, err
	}
	ids := make([]string, 0)
	for _, app := range s.db.applications {
		if app.ClientID == clientID && app.Category == application.CategoryRepair {
			ids = append(ids, app.ID)
		}
	}
	return ids, nil
}

func (s *limitStore) SumRepairCostsByApplications(ctx context.Context, applicationIDs []string, w limit.Window, _ ...core.DBExecutor) (int64, error) {
	s.db.mutex.RLock()
	defer s.db.mutex.RUnlock()

	if err := s.db.failure("SumRepairCostsByApplications"); err != nil {
		return 0, err
	}
	var sum int64
	for _, sl := range s.db.serviceLogs {
		if slices.Contains(applicationIDs, sl.ApplicationID) && sl.ServiceType == application.ServiceTypeRepair && w.Contains(sl.ServiceDate) {
			sum += sl.CostTotal
		}
	}
	return sum, nil
}
