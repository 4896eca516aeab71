package limit

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

// Check names, also used as advisory lock scopes and metric labels.
const (
	CheckCustomMakeCount = "custom_make_count"
	CheckCustomMakeCost  = "custom_make_cost"
	CheckRepairCost      = "repair_cost"

	ScopeCustomMake = "custom_make"
	ScopeRepair     = "repair"
)

var checkLabels = map[string]string{
	CheckCustomMakeCount: "custom-make",
	CheckCustomMakeCost:  "custom-make material cost",
	CheckRepairCost:      "repair cost",
}

// CountedStatuses are the custom-make statuses that count toward the annual count limit.
// Jobs still in design or cancelled are not counted.
var CountedStatuses = []string{"completed", "delivery", "manufacturing", "inspection"}

// KST is the center's local time zone. Korea has no DST so a fixed zone is exact.
var KST = time.FixedZone("KST", 9*60*60)

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// YearWindow returns the calendar year [Jan 1, Jan 1 of next year) in loc.
func YearWindow(year int, loc *time.Location) Window {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Window{From: from, To: from.AddDate(1, 0, 0)}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// JobCost is the cost breakdown of one custom-make job relevant to the material-cost limit.
type JobCost struct {
	CostMaterials null.Int64 `db:"cost_materials"`
	CostTotal     null.Int64 `db:"cost_total"`
}

type CountResult struct {
	Year         int  `json:"year"`
	CurrentCount int  `json:"current_count"`
	Limit        int  `json:"limit"`
	IsExceeded   bool `json:"is_exceeded"`
}

// Err returns a *core.LimitExceededError when the count limit is reached.
func (r CountResult) Err() error {
	if !r.IsExceeded {
		return nil
	}
	return &core.LimitExceededError{
		Check:   CheckCustomMakeCount,
		Label:   checkLabels[CheckCustomMakeCount],
		Current: int64(r.CurrentCount),
		New:     int64(r.CurrentCount) + 1,
		Limit:   int64(r.Limit),
		IsCount: true,
	}
}

type CostResult struct {
	Check        string `json:"check"`
	Year         int    `json:"year"`
	CurrentTotal int64  `json:"current_total"`
	NewTotal     int64  `json:"new_total"`
	Limit        int64  `json:"limit"`
	IsExceeded   bool   `json:"is_exceeded"`
}

// Err returns a *core.LimitExceededError when the new total breaches the limit.
func (r CostResult) Err() error {
	if !r.IsExceeded {
		return nil
	}
	return &core.LimitExceededError{
		Check:   r.Check,
		Label:   checkLabels[r.Check],
		Current: r.CurrentTotal,
		New:     r.NewTotal,
		Limit:   r.Limit,
	}
}

// Summary groups the three annual checks of a client for a year.
type Summary struct {
	ClientID       string      `json:"client_id"`
	Year           int         `json:"year"`
	CustomMakes    CountResult `json:"custom_makes"`
	CustomMakeCost CostResult  `json:"custom_make_cost"`
	Repair         CostResult  `json:"repair"`
}

func (s Summary) HasUsage() bool {
	return s.CustomMakes.CurrentCount > 0 || s.CustomMakeCost.CurrentTotal > 0 || s.Repair.CurrentTotal > 0
}
