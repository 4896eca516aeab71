package sqlxrepos

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
)

const (
	lockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

	clientExistsQuery = "SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)"

	countCustomMakesQuery = `SELECT COUNT(*) FROM custom_makes
		WHERE client_id = $1 AND progress_status = ANY($2) AND created_at >= $3 AND created_at < $4`

	countCustomMakeApplicationsQuery = `SELECT COUNT(*) FROM applications
		WHERE client_id = $1 AND category = $2 AND status <> $3 AND created_at >= $4 AND created_at < $5
		AND ($6::text = '' OR sub_category = $6::text)`

	customMakeCostsQuery = `SELECT cost_materials, cost_total FROM custom_makes
		WHERE client_id = $1 AND progress_status <> $2 AND created_at >= $3 AND created_at < $4`

	repairCostsQuery = `SELECT COALESCE(SUM(sl.cost_total), 0) FROM service_logs sl
		JOIN applications a ON a.id = sl.application_id
		WHERE a.client_id = $1 AND sl.service_type = $2 AND sl.service_date >= $3 AND sl.service_date < $4`

	repairApplicationIDsQuery = "SELECT id FROM applications WHERE client_id = $1 AND category = $2"

	repairCostsByApplicationsQuery = `SELECT COALESCE(SUM(cost_total), 0) FROM service_logs
		WHERE application_id = ANY($1) AND service_type = $2 AND service_date >= $3 AND service_date < $4`
)

type limitStore struct {
	repository
}

var _ limit.Store = (*limitStore)(nil) // interface compliance check

func NewLimitStore(exec core.DBExecutor) *limitStore {
	return &limitStore{repository{exec: exec}}
}

// Lock takes a postgres advisory lock held until the transaction ends. Without a transaction
// executor there is nothing to hold it for, so it does nothing.
func (s limitStore) Lock(ctx context.Context, scope, clientID string, exec ...core.DBExecutor) error {
	if len(exec) == 0 || exec[0] == nil {
		return nil
	}
	if _, err := exec[0].ExecContext(ctx, lockQuery, scope+":"+clientID); err != nil {
		return errors.Wrap(err, "acquiring advisory lock")
	}
	return nil
}

func (s limitStore) ClientExists(ctx context.Context, clientID string, exec ...core.DBExecutor) (bool, error) {
	var found bool
	err := s.getExec(exec).GetContext(ctx, &found, clientExistsQuery, clientID)
	return found, errors.Wrap(err, "looking up client")
}

func (s limitStore) CountCustomMakes(ctx context.Context, clientID string, statuses []string, w limit.Window, exec ...core.DBExecutor) (int, error) {
	var n int
	err := s.getExec(exec).GetContext(ctx, &n, countCustomMakesQuery, clientID, pq.Array(statuses), w.From, w.To)
	return n, errors.Wrap(err, "counting custom makes")
}

func (s limitStore) CountCustomMakeApplications(ctx context.Context, clientID, subCategory string, w limit.Window, exec ...core.DBExecutor) (int, error) {
	var n int
	err := s.getExec(exec).GetContext(ctx, &n, countCustomMakeApplicationsQuery,
		clientID, application.CategoryCustomMake, application.StatusCancelled, w.From, w.To, subCategory)
	return n, errors.Wrap(err, "counting custom make applications")
}

func (s limitStore) QueryCustomMakeCosts(ctx context.Context, clientID string, w limit.Window, exec ...core.DBExecutor) ([]limit.JobCost, error) {
	costs := make([]limit.JobCost, 0)
	err := s.getExec(exec).SelectContext(ctx, &costs, customMakeCostsQuery, clientID, fabrication.StatusCancelled, w.From, w.To)
	if err != nil {
		return nil, errors.Wrap(err, "selecting custom make costs")
	}
	return costs, nil
}

func (s limitStore) SumRepairCosts(ctx context.Context, clientID string, w limit.Window, exec ...core.DBExecutor) (int64, error) {
	var sum int64
	err := s.getExec(exec).GetContext(ctx, &sum, repairCostsQuery, clientID, application.ServiceTypeRepair, w.From, w.To)
	return sum, errors.Wrap(err, "summing repair costs")
}

func (s limitStore) QueryRepairApplicationIDs(ctx context.Context, clientID string, exec ...core.DBExecutor) ([]string, error) {
	ids := make([]string, 0)
	err := s.getExec(exec).SelectContext(ctx, &ids, repairApplicationIDsQuery, clientID, application.CategoryRepair)
	if err != nil {
		return nil, errors.Wrap(err, "selecting repair applications")
	}
	return ids, nil
}

func (s limitStore) SumRepairCostsByApplications(ctx context.Context, applicationIDs []string, w limit.Window, exec ...core.DBExecutor) (int64, error) {
	var sum int64
	err := s.getExec(exec).GetContext(ctx, &sum, repairCostsByApplicationsQuery,
		pq.Array(applicationIDs), application.ServiceTypeRepair, w.From, w.To)
	return sum, errors.Wrap(err, "summing repair costs by application")
}
