package report

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
)

type (
	// Row is the yearly quota usage of one client.
	Row struct {
		Client client.Client `json:"client"`
		Limits limit.Summary `json:"limits"`
	}

	Totals struct {
		Clients        int   `json:"clients"`
		CustomMakes    int   `json:"custom_makes"`
		CustomMakeCost int64 `json:"custom_make_cost"`
		RepairCost     int64 `json:"repair_cost"`
		AtCountLimit   int   `json:"at_count_limit"`
		AtCostLimit    int   `json:"at_cost_limit"`
	}

	// Usage is the annual usage dashboard: one row per client that used any quota in Year.
	Usage struct {
		Year        int       `json:"year"`
		GeneratedAt time.Time `json:"generated_at"`
		Rows        []Row     `json:"rows"`
		Totals      Totals    `json:"totals"`
	}

	Service struct {
		clientRepo client.Repository
		limits     *limit.Evaluator
	}
)

func NewService(clientRepo client.Repository, limits *limit.Evaluator) *Service {
	return &Service{clientRepo: clientRepo, limits: limits}
}

// AnnualUsage evaluates every client's quotas for year. year 0 means the evaluator's current year.
func (svc *Service) AnnualUsage(ctx context.Context, actor core.Actor, year int) (Usage, error) {
	if err := core.Authorize(actor); err != nil {
		return Usage{}, err
	}
	if year == 0 {
		year = svc.limits.Year()
	}

	clients, err := svc.clientRepo.QueryClients(ctx, client.QueryFilter{})
	if err != nil {
		return Usage{}, errors.Wrap(err, "querying clients")
	}

	usage := Usage{
		Year:        year,
		GeneratedAt: core.NowFunc().UTC(),
		Rows:        make([]Row, 0),
		Totals:      Totals{Clients: len(clients)},
	}
	for _, c := range clients {
		sum, err := svc.limits.Summary(ctx, c.ID, year)
		if err != nil {
			return Usage{}, errors.Wrapf(err, "evaluating limits of client %s", c.ID)
		}
		if !sum.HasUsage() {
			continue
		}
		usage.Rows = append(usage.Rows, Row{Client: c, Limits: sum})

		usage.Totals.CustomMakes += sum.CustomMakes.CurrentCount
		usage.Totals.CustomMakeCost += sum.CustomMakeCost.CurrentTotal
		usage.Totals.RepairCost += sum.Repair.CurrentTotal
		if sum.CustomMakes.IsExceeded {
			usage.Totals.AtCountLimit++
		}
		if sum.CustomMakeCost.CurrentTotal >= sum.CustomMakeCost.Limit || sum.Repair.CurrentTotal >= sum.Repair.Limit {
			usage.Totals.AtCostLimit++
		}
	}
	return usage, nil
}
