package limit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

type (
	// Store reads the yearly aggregates the checks are computed from. exec, when given, binds the
	// reads to an open transaction.
	Store interface {
		// Lock takes a transaction-scoped lock on (scope, clientID). It is a no-op outside a transaction.
		Lock(ctx context.Context, scope, clientID string, exec ...core.DBExecutor) error
		ClientExists(ctx context.Context, clientID string, exec ...core.DBExecutor) (bool, error)

		CountCustomMakes(ctx context.Context, clientID string, statuses []string, w Window, exec ...core.DBExecutor) (int, error)
		// CountCustomMakeApplications counts non-cancelled custom_make applications, restricted to
		// subCategory unless it is empty.
		CountCustomMakeApplications(ctx context.Context, clientID, subCategory string, w Window, exec ...core.DBExecutor) (int, error)
		QueryCustomMakeCosts(ctx context.Context, clientID string, w Window, exec ...core.DBExecutor) ([]JobCost, error)

		// SumRepairCosts joins service logs to the client's applications.
		SumRepairCosts(ctx context.Context, clientID string, w Window, exec ...core.DBExecutor) (int64, error)
		QueryRepairApplicationIDs(ctx context.Context, clientID string, exec ...core.DBExecutor) ([]string, error)
		SumRepairCostsByApplications(ctx context.Context, applicationIDs []string, w Window, exec ...core.DBExecutor) (int64, error)
	}

	Options struct {
		CustomMakeCount        int
		CustomMakeCost         int64
		RepairCost             int64
		MaterialCostRatio      float64
		LegacyApplicationCount bool
		ApplicationSubCategory string // empty counts every custom_make application
		ReportingYear          int // 0 means the current year of core.NowFunc in Location
		Location               *time.Location
	}

	// Evaluator decides whether a proposed usage fits a client's annual quotas.
	Evaluator struct {
		store   Store
		opts    Options
		logger  core.Logger
		metrics core.Metrics
	}
)

func OptionsFromConfig(conf core.LimitsConfig) Options {
	return Options{
		CustomMakeCount:        conf.CustomMakeCount,
		CustomMakeCost:         conf.CustomMakeCost,
		RepairCost:             conf.RepairCost,
		MaterialCostRatio:      conf.MaterialCostRatio,
		LegacyApplicationCount: conf.LegacyApplicationCount,
		ApplicationSubCategory: conf.CustomMakeSubCategory,
		ReportingYear:          conf.ReportingYear,
		Location:               KST,
	}
}

func NewEvaluator(store Store, opts Options, logger core.Logger, metrics core.Metrics) *Evaluator {
	if opts.Location == nil {
		opts.Location = KST
	}
	if logger == nil {
		logger = core.NewNopLogger()
	}
	if metrics == nil {
		metrics = core.NewNopMetrics()
	}
	return &Evaluator{store: store, opts: opts, logger: logger, metrics: metrics}
}

// Year is the reporting year the checks run against when none is given.
func (ev *Evaluator) Year() int {
	return ev.YearOf(core.NowFunc())
}

// YearOf is the reporting year a usage at t counts toward: the configured reporting year when set,
// otherwise the calendar year of t in the evaluator's location.
func (ev *Evaluator) YearOf(t time.Time) int {
	if ev.opts.ReportingYear != 0 {
		return ev.opts.ReportingYear
	}
	return t.In(ev.opts.Location).Year()
}

func (ev *Evaluator) window(year int) Window {
	return YearWindow(year, ev.opts.Location)
}

// Lock serialises check-and-insert sequences of the same client within scope.
func (ev *Evaluator) Lock(ctx context.Context, scope, clientID string, exec ...core.DBExecutor) error {
	return errors.Wrap(ev.store.Lock(ctx, scope, clientID, exec...), "locking client")
}

// requireClient refuses ids that do not name a stored client.
func (ev *Evaluator) requireClient(ctx context.Context, clientID string) error {
	if _, err := uuid.Parse(clientID); err != nil {
		return core.NewNotFoundError("client", clientID)
	}
	found, err := ev.store.ClientExists(ctx, clientID)
	if err != nil {
		return errors.Wrap(err, "looking up client")
	}
	if !found {
		return core.NewNotFoundError("client", clientID)
	}
	return nil
}

// CheckCustomLimit reports the client's counted custom makes this year against the count limit.
func (ev *Evaluator) CheckCustomLimit(ctx context.Context, actor core.Actor, clientID string) (CountResult, error) {
	if err := core.Authorize(actor); err != nil {
		return CountResult{}, err
	}
	if err := ev.requireClient(ctx, clientID); err != nil {
		return CountResult{}, err
	}
	return ev.CustomLimit(ctx, clientID, ev.Year())
}

// CheckCustomMakeCostLimit reports whether adding proposed material cost breaches the yearly cap.
func (ev *Evaluator) CheckCustomMakeCostLimit(ctx context.Context, actor core.Actor, clientID string, proposed int64) (CostResult, error) {
	if err := core.Authorize(actor); err != nil {
		return CostResult{}, err
	}
	if err := ev.requireClient(ctx, clientID); err != nil {
		return CostResult{}, err
	}
	return ev.CustomMakeCost(ctx, clientID, proposed, ev.Year())
}

// CheckRepairLimit reports whether adding proposed repair cost breaches the yearly cap.
func (ev *Evaluator) CheckRepairLimit(ctx context.Context, actor core.Actor, clientID string, proposed int64) (CostResult, error) {
	if err := core.Authorize(actor); err != nil {
		return CostResult{}, err
	}
	if err := ev.requireClient(ctx, clientID); err != nil {
		return CostResult{}, err
	}
	return ev.Repair(ctx, clientID, proposed, ev.Year())
}

// CheckAll runs the three checks for year with nothing proposed. year 0 means Year().
func (ev *Evaluator) CheckAll(ctx context.Context, actor core.Actor, clientID string, year int) (Summary, error) {
	if err := core.Authorize(actor); err != nil {
		return Summary{}, err
	}
	if err := ev.requireClient(ctx, clientID); err != nil {
		return Summary{}, err
	}
	return ev.Summary(ctx, clientID, year)
}

// Summary is CheckAll without the authorization check, for callers that already did it.
func (ev *Evaluator) Summary(ctx context.Context, clientID string, year int, exec ...core.DBExecutor) (Summary, error) {
	if year == 0 {
		year = ev.Year()
	}
	sum := Summary{ClientID: clientID, Year: year}
	var err error
	if sum.CustomMakes, err = ev.CustomLimit(ctx, clientID, year, exec...); err != nil {
		return Summary{}, err
	}
	if sum.CustomMakeCost, err = ev.CustomMakeCost(ctx, clientID, 0, year, exec...); err != nil {
		return Summary{}, err
	}
	if sum.Repair, err = ev.Repair(ctx, clientID, 0, year, exec...); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// CustomLimit counts the client's custom makes in a counted status created in year.
// The custom_makes table is authoritative; while LegacyApplicationCount is on, custom_make
// applications are consulted as well and the larger of the two counts wins. The counts are never
// added since both tables may record the same request.
// A failing source is logged and read as zero as long as another source answered.
func (ev *Evaluator) CustomLimit(ctx context.Context, clientID string, year int, exec ...core.DBExecutor) (CountResult, error) {
	w := ev.window(year)

	jobCount, jobErr := ev.store.CountCustomMakes(ctx, clientID, CountedStatuses, w, exec...)
	if jobErr != nil {
		jobCount = 0
	}

	var appCount int
	var appErr error
	if ev.opts.LegacyApplicationCount {
		appCount, appErr = ev.store.CountCustomMakeApplications(ctx, clientID, ev.opts.ApplicationSubCategory, w, exec...)
		if appErr != nil {
			appCount = 0
		}
	}

	switch {
	case jobErr != nil && (!ev.opts.LegacyApplicationCount || appErr != nil):
		return CountResult{}, errors.Wrap(jobErr, "counting custom makes")
	case jobErr != nil:
		ev.logger.Warn(fmt.Sprintf("custom make count unavailable for client %s, using applications", clientID), jobErr)
	case appErr != nil:
		ev.logger.Warn(fmt.Sprintf("custom make application count unavailable for client %s", clientID), appErr)
	}

	count := jobCount
	if appCount > count {
		count = appCount
	}
	res := CountResult{
		Year:         year,
		CurrentCount: count,
		Limit:        ev.opts.CustomMakeCount,
		IsExceeded:   count >= ev.opts.CustomMakeCount,
	}
	ev.metrics.LimitChecked(CheckCustomMakeCount, res.IsExceeded)
	return res, nil
}

// MaterialCost is the cost a job counts for toward the material-cost limit: its material cost, or
// an estimate from its total when no material cost was recorded.
func (ev *Evaluator) MaterialCost(materials, total *int64) int64 {
	if materials != nil {
		return *materials
	}
	if total != nil {
		return int64(math.Round(float64(*total) * ev.opts.MaterialCostRatio))
	}
	return 0
}

// CustomMakeCost sums the material cost of the client's non-cancelled custom makes created in year.
func (ev *Evaluator) CustomMakeCost(ctx context.Context, clientID string, proposed int64, year int, exec ...core.DBExecutor) (CostResult, error) {
	costs, err := ev.store.QueryCustomMakeCosts(ctx, clientID, ev.window(year), exec...)
	if err != nil {
		return CostResult{}, errors.Wrap(err, "querying custom make costs")
	}

	var current int64
	for _, c := range costs {
		current += ev.MaterialCost(c.CostMaterials.Ptr(), c.CostTotal.Ptr())
	}
	return ev.costResult(CheckCustomMakeCost, year, current, proposed, ev.opts.CustomMakeCost), nil
}

// Repair sums the cost of the client's repair service logs dated in year. When the joined query
// fails it falls back to looking up the client's repair applications first.
func (ev *Evaluator) Repair(ctx context.Context, clientID string, proposed int64, year int, exec ...core.DBExecutor) (CostResult, error) {
	w := ev.window(year)

	current, err := ev.store.SumRepairCosts(ctx, clientID, w, exec...)
	if err != nil {
		ev.logger.Warn(fmt.Sprintf("repair cost join failed for client %s, falling back", clientID), err)

		ids, err := ev.store.QueryRepairApplicationIDs(ctx, clientID, exec...)
		if err != nil {
			return CostResult{}, errors.Wrap(err, "querying repair applications")
		}
		current = 0
		if len(ids) > 0 {
			if current, err = ev.store.SumRepairCostsByApplications(ctx, ids, w, exec...); err != nil {
				return CostResult{}, errors.Wrap(err, "summing repair costs")
			}
		}
	}
	return ev.costResult(CheckRepairCost, year, current, proposed, ev.opts.RepairCost), nil
}

func (ev *Evaluator) costResult(check string, year int, current, proposed, limit int64) CostResult {
	res := CostResult{
		Check:        check,
		Year:         year,
		CurrentTotal: current,
		NewTotal:     current + proposed,
		Limit:        limit,
		IsExceeded:   current+proposed > limit,
	}
	ev.metrics.LimitChecked(check, res.IsExceeded)
	return res
}
