package client

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

// Client is a person receiving assistive-device services. Its ID scopes every annual quota.
type Client struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	BirthDate      null.Time `json:"birth_date" db:"birth_date"`
	Phone          string    `json:"phone" db:"phone"`
	DisabilityType string    `json:"disability_type" db:"disability_type"`
	Address        string    `json:"address" db:"address"`
	Notes          string    `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewClient contains information needed to register a new Client.
type NewClient struct {
	Name           string     `json:"name" validate:"required,max=100"`
	BirthDate      *time.Time `json:"birth_date"`
	Phone          string     `json:"phone" validate:"omitempty,max=30"`
	DisabilityType string     `json:"disability_type" validate:"omitempty,max=50"`
	Address        string     `json:"address" validate:"omitempty,max=200"`
	Notes          string     `json:"notes"`
}

func (nc *NewClient) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Phone = core.CleanString(nc.Phone)
	nc.DisabilityType = core.CleanString(nc.DisabilityType)
	nc.Address = core.CleanString(nc.Address)
	return validate.Struct(nc)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Ordering []core.DBOrdering
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
