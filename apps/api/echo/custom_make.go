package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
)

type customMakeApi struct {
	svc      *fabrication.Service
	validate *validator.Validate
}

func registerCustomMakeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := customMakeApi{
		svc:      deps.FabricationSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/custom-makes", jwt)
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PATCH("/:id/progress", api.updateProgress)
	cg.GET("/:id/progress", api.queryProgress)
	cg.POST("/:id/equipment", api.assignEquipment)
	cg.DELETE("/:id/equipment", api.releaseEquipment)
}

// Handlers

func (api *customMakeApi) create(ctx echo.Context) error {
	var data fabrication.NewJob
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewJob")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	job, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating custom make")
	}
	return respond(ctx, http.StatusCreated, job)
}

func (api *customMakeApi) query(ctx echo.Context) error {
	var filter fabrication.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	jobs, err := api.svc.Query(ctx.Request().Context(), actor, filter)
	if err != nil {
		return errors.Wrap(err, "querying custom makes")
	}
	if jobs == nil {
		jobs = []fabrication.Job{}
	}
	return respond(ctx, http.StatusOK, jobs)
}

func (api *customMakeApi) retrieve(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	job, err := api.svc.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting custom make")
	}
	return respond(ctx, http.StatusOK, job)
}

func (api *customMakeApi) updateProgress(ctx echo.Context) error {
	var data fabrication.ProgressUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProgressUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	job, err := api.svc.UpdateProgress(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating progress")
	}
	return respond(ctx, http.StatusOK, job)
}

func (api *customMakeApi) queryProgress(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	events, err := api.svc.ListProgress(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing progress")
	}
	if events == nil {
		events = []fabrication.ProgressEvent{}
	}
	return respond(ctx, http.StatusOK, events)
}

func (api *customMakeApi) assignEquipment(ctx echo.Context) error {
	var data fabrication.EquipmentAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EquipmentAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	job, err := api.svc.AssignEquipment(ctx.Request().Context(), actor, ctx.Param("id"), data.EquipmentID)
	if err != nil {
		return errors.Wrap(err, "assigning equipment")
	}
	return respond(ctx, http.StatusOK, job)
}

func (api *customMakeApi) releaseEquipment(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	job, err := api.svc.ReleaseEquipment(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "releasing equipment")
	}
	return respond(ctx, http.StatusOK, job)
}
