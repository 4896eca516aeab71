package equipment

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

const (
	StatusAvailable    = "available"
	StatusReserved     = "reserved"
	StatusInUse        = "in_use"
	StatusMaintenance  = "maintenance"
	StatusOutOfService = "out_of_service"
)

var (
	Statuses = []string{StatusAvailable, StatusReserved, StatusInUse, StatusMaintenance, StatusOutOfService}

	// ManualStatuses can be set directly; in_use is only reached by assigning the equipment to a job.
	ManualStatuses = []string{StatusAvailable, StatusReserved, StatusMaintenance, StatusOutOfService}

	statusTag  = "equipment_status"
	statusText = "invalid equipment status"
)

// Equipment is a shared fabrication resource (3D printer, CNC, sewing machine, ...).
type Equipment struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Type         string      `json:"type" db:"type"`
	SerialNumber null.String `json:"serial_number" db:"serial_number"`
	Location     string      `json:"location" db:"location"`
	Status       string      `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// IsAssignable reports whether the equipment can be checked out to a job.
func (e Equipment) IsAssignable() bool {
	return e.Status == StatusAvailable || e.Status == StatusReserved
}

type NewEquipment struct {
	Name         string `json:"name" validate:"required,max=100"`
	Type         string `json:"type" validate:"required,max=50"`
	SerialNumber string `json:"serial_number" validate:"omitempty,max=100"`
	Location     string `json:"location" validate:"omitempty,max=100"`
	Status       string `json:"status" validate:"omitempty,equipment_status"`
}

func (ne *NewEquipment) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Type = core.CleanString(ne.Type, true /* lower */)
	ne.SerialNumber = core.CleanString(ne.SerialNumber)
	ne.Location = core.CleanString(ne.Location)
	return validate.Struct(ne)
}

type StatusUpdate struct {
	Status string `json:"status" validate:"required,equipment_status"`
}

func (su StatusUpdate) Validate(validate *validator.Validate) error { return validate.Struct(su) }

type QueryFilter struct {
	Status string `query:"status"`
	Type   string `query:"type"`
}

// InitValidators registers the equipment validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, statusTag, statusText, ManualStatuses...)
}
