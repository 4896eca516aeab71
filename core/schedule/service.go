package schedule

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/user"
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, e Entry, exec ...core.DBExecutor) (Entry, error)
		// QueryEntries returns entries dated in [filter.From, filter.To), oldest first.
		QueryEntries(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Entry, error)
	}

	UserGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo    Repository
		users   UserGetter
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, users UserGetter, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, users: users, mailSvc: mailSvc, logger: logger}
}

// Create records a calendar entry and notifies its assignee, if any.
func (svc *Service) Create(ctx context.Context, actor core.Actor, ne NewEntry) (Entry, error) {
	if err := core.Authorize(actor); err != nil {
		return Entry{}, err
	}
	e := Entry{
		ID:            uuid.NewString(),
		ClientID:      ne.ClientID,
		ApplicationID: ne.ApplicationID,
		CustomMakeID:  ne.CustomMakeID,
		AssigneeID:    ne.AssigneeID,
		Kind:          ne.Kind,
		Date:          ne.Date,
		Note:          ne.Note,
		CreatedAt:     core.NowFunc().UTC(),
	}
	if id := actor.StaffID(); id != nil {
		e.CreatedBy = null.StringFrom(*id)
	}
	e, err := svc.repo.CreateEntry(ctx, e)
	if err != nil {
		return Entry{}, errors.Wrap(err, "creating schedule entry")
	}

	if e.AssigneeID.Valid {
		if to, ok := svc.recipient(ctx, e.AssigneeID.String); ok {
			svc.mailSvc.SendMessages(&core.EmailMessage{
				To:           []mail.Address{to},
				Subject:      fmt.Sprintf("New %s on %s", e.Kind, e.Date.Format("2006-01-02")),
				TemplateName: "schedule_created",
				TemplateData: e,
			})
		}
	}
	return e, nil
}

func (svc *Service) Query(ctx context.Context, actor core.Actor, filter QueryFilter) ([]Entry, error) {
	if err := core.Authorize(actor); err != nil {
		return nil, err
	}
	if filter.From.IsZero() {
		filter.From = core.NowFunc().UTC().Truncate(24 * time.Hour)
	}
	if filter.To.IsZero() || !filter.To.After(filter.From) {
		filter.To = filter.From.AddDate(0, 1, 0)
	}
	return svc.repo.QueryEntries(ctx, filter)
}

// SendDigest mails every assignee the entries scheduled on day. It returns how many digests were sent.
func (svc *Service) SendDigest(ctx context.Context, day time.Time) (int, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	entries, err := svc.repo.QueryEntries(ctx, QueryFilter{From: from, To: from.AddDate(0, 0, 1)})
	if err != nil {
		return 0, errors.Wrap(err, "querying schedule entries")
	}

	byAssignee := make(map[string][]Entry)
	order := make([]string, 0)
	for _, e := range entries {
		if !e.AssigneeID.Valid {
			continue
		}
		if _, ok := byAssignee[e.AssigneeID.String]; !ok {
			order = append(order, e.AssigneeID.String)
		}
		byAssignee[e.AssigneeID.String] = append(byAssignee[e.AssigneeID.String], e)
	}

	msgs := make([]*core.EmailMessage, 0, len(order))
	for _, id := range order {
		to, ok := svc.recipient(ctx, id)
		if !ok {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{to},
			Subject:      "Schedule for " + from.Format("2006-01-02"),
			TemplateName: "schedule_digest",
			TemplateData: digestData{Day: from, Entries: byAssignee[id]},
		})
	}
	if len(msgs) > 0 {
		svc.mailSvc.SendMessages(msgs...)
	}
	return len(msgs), nil
}

func (svc *Service) recipient(ctx context.Context, userID string) (mail.Address, bool) {
	usr, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("schedule recipient %s not found", userID), err)
		return mail.Address{}, false
	}
	if usr.Email == "" || !usr.IsActive {
		return mail.Address{}, false
	}
	return mail.Address{Name: usr.Name, Address: usr.Email}, true
}
