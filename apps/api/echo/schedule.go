package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
)

const dateLayout = "2006-01-02"

type scheduleApi struct {
	svc *schedule.Service
}

func registerScheduleAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := scheduleApi{svc: deps.ScheduleSvc}

	sg := g.Group("/schedules", jwt)
	sg.GET("", api.query)
}

func (api *scheduleApi) query(ctx echo.Context) error {
	from, err := queryDate(ctx, "from")
	if err != nil {
		return err
	}
	to, err := queryDate(ctx, "to")
	if err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	filter := schedule.QueryFilter{From: from, To: to, AssigneeID: ctx.QueryParam("assignee_id")}
	entries, err := api.svc.Query(ctx.Request().Context(), actor, filter)
	if err != nil {
		return errors.Wrap(err, "querying schedules")
	}
	if entries == nil {
		entries = []schedule.Entry{}
	}
	return respond(ctx, http.StatusOK, entries)
}

// queryDate accepts a day (2006-01-02, read in KST) or an RFC 3339 timestamp.
func queryDate(ctx echo.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(ctx.QueryParam(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(dateLayout, raw, limit.KST); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		msg := "must be a date (YYYY-MM-DD) or an RFC 3339 timestamp"
		return time.Time{}, core.NewValidationError(errors.Errorf("%s %s", name, msg), core.FieldError{Field: name, Error: msg})
	}
	return t.UTC(), nil
}
