package equipment

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

var errInUse = errors.New("equipment in use must be released from its custom make first")

type (
	Repository interface {
		CreateEquipment(ctx context.Context, eq Equipment, exec ...core.DBExecutor) (Equipment, error)
		// GetEquipment returns a *core.NotFoundError when no row matches id.
		// forUpdate locks the row until the surrounding transaction ends.
		GetEquipment(ctx context.Context, id string, forUpdate bool, exec ...core.DBExecutor) (Equipment, error)
		QueryEquipment(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Equipment, error)
		UpdateEquipmentStatus(ctx context.Context, eq Equipment, exec ...core.DBExecutor) (Equipment, error)
	}

	Service struct {
		tx   core.TxRunner
		repo Repository
	}
)

func NewService(tx core.TxRunner, repo Repository) *Service {
	return &Service{tx: tx, repo: repo}
}

func (svc *Service) Create(ctx context.Context, actor core.Actor, ne NewEquipment) (Equipment, error) {
	if err := core.Authorize(actor); err != nil {
		return Equipment{}, err
	}
	now := core.NowFunc().UTC()
	eq := Equipment{
		ID:        uuid.NewString(),
		Name:      ne.Name,
		Type:      ne.Type,
		Location:  ne.Location,
		Status:    ne.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if eq.Status == "" {
		eq.Status = StatusAvailable
	}
	if ne.SerialNumber != "" {
		eq.SerialNumber = null.StringFrom(ne.SerialNumber)
	}
	eq, err := svc.repo.CreateEquipment(ctx, eq)
	return eq, errors.Wrap(err, "creating equipment")
}

func (svc *Service) Get(ctx context.Context, actor core.Actor, id string) (Equipment, error) {
	if err := core.Authorize(actor); err != nil {
		return Equipment{}, err
	}
	return svc.repo.GetEquipment(ctx, id, false)
}

func (svc *Service) Query(ctx context.Context, actor core.Actor, filter QueryFilter) ([]Equipment, error) {
	if err := core.Authorize(actor); err != nil {
		return nil, err
	}
	return svc.repo.QueryEquipment(ctx, filter)
}

// SetStatus moves equipment between the manual statuses (maintenance, reserved, ...).
// Equipment in use stays bound to its job until released there.
func (svc *Service) SetStatus(ctx context.Context, actor core.Actor, id string, su StatusUpdate) (Equipment, error) {
	if err := core.Authorize(actor); err != nil {
		return Equipment{}, err
	}
	var eq Equipment
	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		var err error
		eq, err = svc.repo.GetEquipment(ctx, id, true, exec)
		if err != nil {
			return err
		}
		if eq.Status == StatusInUse {
			return core.NewValidationError(errInUse, core.FieldError{Field: "status", Error: errInUse.Error()})
		}
		if eq.Status == su.Status {
			return nil
		}
		eq.Status = su.Status
		eq.UpdatedAt = core.NowFunc().UTC()
		eq, err = svc.repo.UpdateEquipmentStatus(ctx, eq, exec)
		return err
	})
	if err != nil {
		return Equipment{}, errors.Wrap(err, "setting equipment status")
	}
	return eq, nil
}
