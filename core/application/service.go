package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application, exec ...core.DBExecutor) (Application, error)
		// GetApplication returns a *core.NotFoundError when no row matches id.
		GetApplication(ctx context.Context, id string, exec ...core.DBExecutor) (Application, error)
		QueryApplications(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Application, error)
		CreateServiceLog(ctx context.Context, log ServiceLog, exec ...core.DBExecutor) (ServiceLog, error)
		QueryServiceLogs(ctx context.Context, applicationID string, exec ...core.DBExecutor) ([]ServiceLog, error)
	}

	Service struct {
		tx         core.TxRunner
		repo       Repository
		clientRepo client.Repository
		limits     *limit.Evaluator
	}
)

func NewService(tx core.TxRunner, repo Repository, clientRepo client.Repository, limits *limit.Evaluator) *Service {
	return &Service{tx: tx, repo: repo, clientRepo: clientRepo, limits: limits}
}

func (svc *Service) Create(ctx context.Context, actor core.Actor, na NewApplication) (Application, error) {
	if err := core.Authorize(actor); err != nil {
		return Application{}, err
	}
	if _, err := svc.clientRepo.GetClient(ctx, na.ClientID); err != nil {
		return Application{}, err
	}
	now := core.NowFunc().UTC()
	app := Application{
		ID:          uuid.NewString(),
		ClientID:    na.ClientID,
		Category:    na.Category,
		SubCategory: na.SubCategory,
		Status:      na.Status,
		Description: na.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if app.Status == "" {
		app.Status = StatusReceived
	}
	app, err := svc.repo.CreateApplication(ctx, app)
	return app, pkgerrors.Wrap(err, "creating application")
}

func (svc *Service) Get(ctx context.Context, actor core.Actor, id string) (Application, error) {
	if err := core.Authorize(actor); err != nil {
		return Application{}, err
	}
	return svc.repo.GetApplication(ctx, id)
}

func (svc *Service) Query(ctx context.Context, actor core.Actor, filter QueryFilter) ([]Application, error) {
	if err := core.Authorize(actor); err != nil {
		return nil, err
	}
	return svc.repo.QueryApplications(ctx, filter)
}

// AddServiceLog records a service action on an application. Repair logs are refused when they
// would push the client's yearly repair cost over the limit; the check and the insert happen
// under the client's repair lock in one transaction.
func (svc *Service) AddServiceLog(ctx context.Context, actor core.Actor, applicationID string, nl NewServiceLog) (ServiceLog, error) {
	if err := core.Authorize(actor); err != nil {
		return ServiceLog{}, err
	}
	now := core.NowFunc().UTC()
	sl := ServiceLog{
		ID:            uuid.NewString(),
		ApplicationID: applicationID,
		ServiceType:   nl.ServiceType,
		Description:   nl.Description,
		CostTotal:     nl.CostTotal,
		ServiceDate:   now,
		CreatedAt:     now,
	}
	if nl.ServiceDate != nil {
		sl.ServiceDate = nl.ServiceDate.UTC()
	}
	if id := actor.StaffID(); id != nil {
		sl.StaffID = null.StringFrom(*id)
	}

	err := svc.tx.RunInTx(ctx, func(exec core.DBExecutor) error {
		app, err := svc.repo.GetApplication(ctx, applicationID, exec)
		if err != nil {
			return err
		}
		if sl.ServiceType == ServiceTypeRepair {
			if app.Category != CategoryRepair {
				return core.NewValidationError(errors.New(errRepairOnly), core.FieldError{Field: "service_type", Error: errRepairOnly})
			}
			if err = svc.limits.Lock(ctx, limit.ScopeRepair, app.ClientID, exec); err != nil {
				return err
			}
			year := svc.limits.YearOf(sl.ServiceDate)
			res, err := svc.limits.Repair(ctx, app.ClientID, sl.CostTotal, year, exec)
			if err != nil {
				return err
			}
			if err = res.Err(); err != nil {
				return err
			}
		}
		sl, err = svc.repo.CreateServiceLog(ctx, sl, exec)
		return err
	})
	if err != nil {
		return ServiceLog{}, pkgerrors.Wrap(err, "adding service log")
	}
	return sl, nil
}

func (svc *Service) ListServiceLogs(ctx context.Context, actor core.Actor, applicationID string) ([]ServiceLog, error) {
	if err := core.Authorize(actor); err != nil {
		return nil, err
	}
	if _, err := svc.repo.GetApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	return svc.repo.QueryServiceLogs(ctx, applicationID)
}
