package schedule

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Entry kinds derived from custom-make dates.
const (
	KindExpectedCompletion = "expected_completion"
	KindManufacturingStart = "manufacturing_start"
	KindDelivery           = "delivery"
)

// Entry is one calendar entry for a client.
type Entry struct {
	ID            string      `json:"id" db:"id"`
	ClientID      string      `json:"client_id" db:"client_id"`
	ApplicationID null.String `json:"application_id" db:"application_id"`
	CustomMakeID  null.String `json:"custom_make_id" db:"custom_make_id"`
	AssigneeID    null.String `json:"assignee_id" db:"assignee_id"`
	Kind          string      `json:"kind" db:"kind"`
	Date          time.Time   `json:"date" db:"scheduled_date"`
	Note          string      `json:"note" db:"note"`
	CreatedBy     null.String `json:"created_by" db:"created_by"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"` // UTC
}

// NewEntry is a request to put something on the calendar.
type NewEntry struct {
	ClientID      string
	ApplicationID null.String
	CustomMakeID  null.String
	AssigneeID    null.String
	Kind          string
	Date          time.Time
	Note          string
}

type QueryFilter struct {
	From       time.Time `query:"from"`
	To         time.Time `query:"to"`
	AssigneeID string    `query:"assignee_id"`
}

// digestData feeds the schedule_digest email template.
type digestData struct {
	Day     time.Time
	Entries []Entry
}
