package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
)

type clientApi struct {
	svc      *client.Service
	limits   *limit.Evaluator
	validate *validator.Validate
}

func registerClientAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := clientApi{
		svc:      deps.ClientSvc,
		limits:   deps.Limits,
		validate: deps.Validate,
	}

	cg := g.Group("/clients", jwt)
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	// annual quotas
	lg := cg.Group("/:id/limits")
	lg.GET("", api.checkAll)
	lg.GET("/custom", api.checkCustom)
	lg.GET("/custom-cost", api.checkCustomCost)
	lg.GET("/repair", api.checkRepair)
}

// Handlers

func (api *clientApi) create(ctx echo.Context) error {
	var data client.NewClient
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClient")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating client")
	}
	return respond(ctx, http.StatusCreated, c)
}

func (api *clientApi) query(ctx echo.Context) error {
	filter := client.QueryFilter{Search: ctx.QueryParam("search")}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	filter.Ordering = ordering.Orderings

	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	clients, err := api.svc.Query(ctx.Request().Context(), actor, filter)
	if err != nil {
		return errors.Wrap(err, "querying clients")
	}
	if clients == nil {
		clients = []client.Client{}
	}
	return respond(ctx, http.StatusOK, clients)
}

func (api *clientApi) retrieve(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting client")
	}
	return respond(ctx, http.StatusOK, c)
}

func (api *clientApi) checkAll(ctx echo.Context) error {
	year, err := queryYear(ctx)
	if err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	sum, err := api.limits.CheckAll(ctx.Request().Context(), actor, ctx.Param("id"), year)
	if err != nil {
		return errors.Wrap(err, "checking limits")
	}
	return respond(ctx, http.StatusOK, sum)
}

func (api *clientApi) checkCustom(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	res, err := api.limits.CheckCustomLimit(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking custom make limit")
	}
	return respond(ctx, http.StatusOK, res)
}

func (api *clientApi) checkCustomCost(ctx echo.Context) error {
	amount, err := queryAmount(ctx)
	if err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	res, err := api.limits.CheckCustomMakeCostLimit(ctx.Request().Context(), actor, ctx.Param("id"), amount)
	if err != nil {
		return errors.Wrap(err, "checking custom make cost limit")
	}
	return respond(ctx, http.StatusOK, res)
}

func (api *clientApi) checkRepair(ctx echo.Context) error {
	amount, err := queryAmount(ctx)
	if err != nil {
		return err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	res, err := api.limits.CheckRepairLimit(ctx.Request().Context(), actor, ctx.Param("id"), amount)
	if err != nil {
		return errors.Wrap(err, "checking repair limit")
	}
	return respond(ctx, http.StatusOK, res)
}
