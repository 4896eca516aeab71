package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core/report"
	reportsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := reportApi{svc: deps.ReportSvc}

	rg := g.Group("/reports", jwt)
	rg.GET("/usage", api.usage)
	rg.GET("/usage.xlsx", api.usageXLSX)
}

func (api *reportApi) annualUsage(ctx echo.Context) (report.Usage, error) {
	year, err := queryYear(ctx)
	if err != nil {
		return report.Usage{}, err
	}
	actor, err := getActor(ctx)
	if err != nil {
		return report.Usage{}, err
	}
	usage, err := api.svc.AnnualUsage(ctx.Request().Context(), actor, year)
	return usage, errors.Wrap(err, "building usage report")
}

func (api *reportApi) usage(ctx echo.Context) error {
	usage, err := api.annualUsage(ctx)
	if err != nil {
		return err
	}
	if usage.Rows == nil {
		usage.Rows = []report.Row{}
	}
	return respond(ctx, http.StatusOK, usage)
}

func (api *reportApi) usageXLSX(ctx echo.Context) error {
	usage, err := api.annualUsage(ctx)
	if err != nil {
		return err
	}

	// render fully before writing headers so a failure still yields a JSON error
	var buf bytes.Buffer
	if err = reportsvc.WriteUsageXLSX(&buf, usage); err != nil {
		return errors.Wrap(err, "writing usage workbook")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+reportsvc.Filename(usage.Year)+`"`)
	return ctx.Blob(http.StatusOK, reportsvc.ContentTypeXLSX, buf.Bytes())
}
