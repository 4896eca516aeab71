package fabrication

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

// Progress statuses. A job moves design -> manufacturing -> inspection -> delivery -> completed and can be
// cancelled from any non-terminal status.
const (
	StatusDesign        = "design"
	StatusManufacturing = "manufacturing"
	StatusInspection    = "inspection"
	StatusDelivery      = "delivery"
	StatusCompleted     = "completed"
	StatusCancelled     = "cancelled"
)

var (
	Statuses = []string{StatusDesign, StatusManufacturing, StatusInspection, StatusDelivery, StatusCompleted, StatusCancelled}

	statusTag  = "progress_status"
	statusText = "invalid progress status"
)

// IsTerminal reports whether no further transition is allowed from status.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// Job is one custom-fabrication project (custom make) of a client.
type Job struct {
	ID                     string      `json:"id" db:"id"`
	ClientID               string      `json:"client_id" db:"client_id"`
	ApplicationID          null.String `json:"application_id" db:"application_id"`
	Title                  string      `json:"title" db:"title"`
	AssignedStaffID        null.String `json:"assigned_staff_id" db:"assigned_staff_id"`
	EquipmentID            null.String `json:"equipment_id" db:"equipment_id"`
	ProgressStatus         string      `json:"progress_status" db:"progress_status"`
	ProgressPercentage     int         `json:"progress_percentage" db:"progress_percentage"`
	CostMaterials          null.Int64  `json:"cost_materials" db:"cost_materials"`
	CostLabor              null.Int64  `json:"cost_labor" db:"cost_labor"`
	CostEquipment          null.Int64  `json:"cost_equipment" db:"cost_equipment"`
	CostOther              null.Int64  `json:"cost_other" db:"cost_other"`
	CostTotal              null.Int64  `json:"cost_total" db:"cost_total"`
	ExpectedCompletionDate null.Time   `json:"expected_completion_date" db:"expected_completion_date"`
	ManufacturingStartDate null.Time   `json:"manufacturing_start_date" db:"manufacturing_start_date"`
	DeliveryDate           null.Time   `json:"delivery_date" db:"delivery_date"`
	Notes                  string      `json:"notes" db:"notes"`
	CreatedAt              time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt              time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// ProgressEvent is an append-only record of the status/percentage a job reached. Never updated or deleted.
type ProgressEvent struct {
	ID           string         `json:"id" db:"id"`
	CustomMakeID string         `json:"custom_make_id" db:"custom_make_id"`
	StaffID      null.String    `json:"staff_id" db:"staff_id"`
	Status       string         `json:"status" db:"progress_status"`
	Percentage   int            `json:"percentage" db:"progress_percentage"`
	Notes        null.String    `json:"notes" db:"notes"`
	Images       pq.StringArray `json:"images" db:"images"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"` // UTC
}

// NewJob contains information needed to open a custom make.
type NewJob struct {
	ClientID               string     `json:"client_id" validate:"required,uuid"`
	ApplicationID          *string    `json:"application_id" validate:"omitempty,uuid"`
	Title                  string     `json:"title" validate:"required,max=200"`
	AssignedStaffID        *string    `json:"assigned_staff_id" validate:"omitempty,uuid"`
	CostMaterials          *int64     `json:"cost_materials" validate:"omitempty,min=0"`
	CostLabor              *int64     `json:"cost_labor" validate:"omitempty,min=0"`
	CostEquipment          *int64     `json:"cost_equipment" validate:"omitempty,min=0"`
	CostOther              *int64     `json:"cost_other" validate:"omitempty,min=0"`
	CostTotal              *int64     `json:"cost_total" validate:"omitempty,min=0"`
	ExpectedCompletionDate *time.Time `json:"expected_completion_date"`
	Notes                  string     `json:"notes"`
}

func (nj *NewJob) Validate(validate *validator.Validate) error {
	nj.Title = core.CleanString(nj.Title)
	nj.Notes = core.CleanString(nj.Notes)
	return validate.Struct(nj)
}

// total returns CostTotal, or the sum of the supplied parts when no total was given.
func (nj NewJob) total() *int64 {
	if nj.CostTotal != nil {
		return nj.CostTotal
	}
	var sum int64
	var given bool
	for _, part := range []*int64{nj.CostMaterials, nj.CostLabor, nj.CostEquipment, nj.CostOther} {
		if part != nil {
			sum += *part
			given = true
		}
	}
	if !given {
		return nil
	}
	return &sum
}

// ProgressUpdate is a partial update: nil fields keep their stored value.
type ProgressUpdate struct {
	Status                 *string    `json:"status" validate:"omitempty,progress_status"`
	Percentage             *int       `json:"percentage" validate:"omitempty,min=0,max=100"`
	Notes                  *string    `json:"notes"`
	Images                 []string   `json:"images" validate:"omitempty,dive,url"`
	ManufacturingStartDate *time.Time `json:"manufacturing_start_date"`
	DeliveryDate           *time.Time `json:"delivery_date"`
}

func (pu *ProgressUpdate) Validate(validate *validator.Validate) error {
	if pu.Notes != nil {
		notes := core.CleanString(*pu.Notes)
		pu.Notes = &notes
	}
	return validate.Struct(pu)
}

type EquipmentAssignment struct {
	EquipmentID string `json:"equipment_id" validate:"required,uuid"`
}

func (ea EquipmentAssignment) Validate(validate *validator.Validate) error { return validate.Struct(ea) }

type QueryFilter struct {
	ClientID string `query:"client_id"`
	Status   string `query:"status"`
}

// InitValidators registers the custom make validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, statusTag, statusText, Statuses...)
}
