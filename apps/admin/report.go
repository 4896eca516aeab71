package main

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	reportsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/report"
)

// the CLI runs with database credentials, so it reports as an administrator
var cliActor = core.Actor{UserID: "admin-cli", Roles: []string{core.RoleAdmin}}

// writeReport exports the annual usage workbook and returns the path written.
func (cli *commandLine) writeReport(ctx context.Context, year int, path string) (string, error) {
	usage, err := cli.reports.AnnualUsage(ctx, cliActor, year)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = reportsvc.Filename(usage.Year)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating report file")
	}
	if err = reportsvc.WriteUsageXLSX(f, usage); err != nil {
		_ = f.Close()
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", errors.Wrap(err, "closing report file")
	}
	return path, nil
}
