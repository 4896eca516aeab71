package application

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

// Categories
const (
	CategoryConsultation = "consultation"
	CategoryRental       = "rental"
	CategoryRepair       = "repair"
	CategoryCustomMake   = "custom_make"
)

// Statuses
const (
	StatusReceived   = "received"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Service log types
const (
	ServiceTypeRepair       = "repair"
	ServiceTypeInspection   = "inspection"
	ServiceTypeCleaning     = "cleaning"
	ServiceTypeConsultation = "consultation"
)

var (
	Categories   = []string{CategoryConsultation, CategoryRental, CategoryRepair, CategoryCustomMake}
	Statuses     = []string{StatusReceived, StatusInProgress, StatusCompleted, StatusCancelled}
	ServiceTypes = []string{ServiceTypeRepair, ServiceTypeInspection, ServiceTypeCleaning, ServiceTypeConsultation}

	categoryTag     = "app_category"
	categoryText    = "invalid application category"
	statusTag       = "app_status"
	statusText      = "invalid application status"
	serviceTypeTag  = "service_type"
	serviceTypeText = "invalid service type"

	errRepairOnly = "repair service logs can only be recorded on repair applications"
)

// Application is one service request (case) of a client.
type Application struct {
	ID          string    `json:"id" db:"id"`
	ClientID    string    `json:"client_id" db:"client_id"`
	Category    string    `json:"category" db:"category"`
	SubCategory string    `json:"sub_category" db:"sub_category"`
	Status      string    `json:"status" db:"status"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// ServiceLog is one service action performed under an application. Repair logs feed the repair cost limit.
type ServiceLog struct {
	ID            string      `json:"id" db:"id"`
	ApplicationID string      `json:"application_id" db:"application_id"`
	ServiceType   string      `json:"service_type" db:"service_type"`
	Description   string      `json:"description" db:"description"`
	CostTotal     int64       `json:"cost_total" db:"cost_total"`
	StaffID       null.String `json:"staff_id" db:"staff_id"`
	ServiceDate   time.Time   `json:"service_date" db:"service_date"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"` // UTC
}

type NewApplication struct {
	ClientID    string `json:"client_id" validate:"required,uuid"`
	Category    string `json:"category" validate:"required,app_category"`
	SubCategory string `json:"sub_category" validate:"omitempty,max=50"`
	Status      string `json:"status" validate:"omitempty,app_status"`
	Description string `json:"description"`
}

func (na *NewApplication) Validate(validate *validator.Validate) error {
	na.SubCategory = core.CleanString(na.SubCategory)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

type NewServiceLog struct {
	ServiceType string     `json:"service_type" validate:"required,service_type"`
	Description string     `json:"description"`
	CostTotal   int64      `json:"cost_total" validate:"min=0"`
	ServiceDate *time.Time `json:"service_date"`
}

func (nl *NewServiceLog) Validate(validate *validator.Validate) error {
	nl.Description = core.CleanString(nl.Description)
	return validate.Struct(nl)
}

type QueryFilter struct {
	ClientID string `query:"client_id"`
	Category string `query:"category"`
}

// InitValidators registers the application validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, categoryTag, categoryText, Categories...)
	core.RegisterOneOf(validate, translator, statusTag, statusText, Statuses...)
	core.RegisterOneOf(validate, translator, serviceTypeTag, serviceTypeText, ServiceTypes...)
}
