package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

type (
	Repository interface {
		CreateClient(ctx context.Context, c Client, exec ...core.DBExecutor) (Client, error)
		// GetClient returns a *core.NotFoundError when no row matches id.
		GetClient(ctx context.Context, id string, exec ...core.DBExecutor) (Client, error)
		QueryClients(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Client, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, actor core.Actor, nc NewClient) (Client, error) {
	if err := core.Authorize(actor); err != nil {
		return Client{}, err
	}
	now := core.NowFunc().UTC()
	c := Client{
		ID:             uuid.NewString(),
		Name:           nc.Name,
		Phone:          nc.Phone,
		DisabilityType: nc.DisabilityType,
		Address:        nc.Address,
		Notes:          nc.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if nc.BirthDate != nil {
		c.BirthDate = null.TimeFrom(nc.BirthDate.UTC())
	}
	c, err := svc.repo.CreateClient(ctx, c)
	return c, errors.Wrap(err, "creating client")
}

func (svc *Service) Get(ctx context.Context, actor core.Actor, id string) (Client, error) {
	if err := core.Authorize(actor); err != nil {
		return Client{}, err
	}
	return svc.repo.GetClient(ctx, id)
}

func (svc *Service) Query(ctx context.Context, actor core.Actor, filter QueryFilter) ([]Client, error) {
	if err := core.Authorize(actor); err != nil {
		return nil, err
	}
	filter.Clean()
	return svc.repo.QueryClients(ctx, filter)
}
