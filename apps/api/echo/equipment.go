package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
)

type equipmentApi struct {
	svc      *equipment.Service
	validate *validator.Validate
}

func registerEquipmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := equipmentApi{
		svc:      deps.EquipmentSvc,
		validate: deps.Validate,
	}

	eg := g.Group("/equipment", jwt)
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.PUT("/:id/status", api.setStatus)
}

// Handlers

func (api *equipmentApi) create(ctx echo.Context) error {
	var data equipment.NewEquipment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEquipment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	eq, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating equipment")
	}
	return respond(ctx, http.StatusCreated, eq)
}

func (api *equipmentApi) query(ctx echo.Context) error {
	var filter equipment.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	items, err := api.svc.Query(ctx.Request().Context(), actor, filter)
	if err != nil {
		return errors.Wrap(err, "querying equipment")
	}
	if items == nil {
		items = []equipment.Equipment{}
	}
	return respond(ctx, http.StatusOK, items)
}

func (api *equipmentApi) retrieve(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	eq, err := api.svc.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting equipment")
	}
	return respond(ctx, http.StatusOK, eq)
}

func (api *equipmentApi) setStatus(ctx echo.Context) error {
	var data equipment.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	eq, err := api.svc.SetStatus(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "setting equipment status")
	}
	return respond(ctx, http.StatusOK, eq)
}
