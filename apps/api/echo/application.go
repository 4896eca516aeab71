package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
)

type applicationApi struct {
	svc      *application.Service
	validate *validator.Validate
}

func registerApplicationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := applicationApi{
		svc:      deps.ApplicationSvc,
		validate: deps.Validate,
	}

	ag := g.Group("/applications", jwt)
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.POST("/:id/service-logs", api.addServiceLog)
	ag.GET("/:id/service-logs", api.queryServiceLogs)
}

// Handlers

func (api *applicationApi) create(ctx echo.Context) error {
	var data application.NewApplication
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	app, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating application")
	}
	return respond(ctx, http.StatusCreated, app)
}

func (api *applicationApi) query(ctx echo.Context) error {
	var filter application.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	apps, err := api.svc.Query(ctx.Request().Context(), actor, filter)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return respond(ctx, http.StatusOK, apps)
}

func (api *applicationApi) retrieve(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	app, err := api.svc.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting application")
	}
	return respond(ctx, http.StatusOK, app)
}

func (api *applicationApi) addServiceLog(ctx echo.Context) error {
	var data application.NewServiceLog
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewServiceLog")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	sl, err := api.svc.AddServiceLog(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding service log")
	}
	return respond(ctx, http.StatusCreated, sl)
}

func (api *applicationApi) queryServiceLogs(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	logs, err := api.svc.ListServiceLogs(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing service logs")
	}
	if logs == nil {
		logs = []application.ServiceLog{}
	}
	return respond(ctx, http.StatusOK, logs)
}
