package reportsvc

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/Kris-Young-Kim/co-AT-sub000/core/report"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var usageHeader = []interface{}{
	"client_id",
	"client_name",
	"custom_makes",
	"custom_make_limit",
	"custom_make_material_cost",
	"custom_make_cost_limit",
	"repair_cost",
	"repair_cost_limit",
	"at_count_limit",
}

// Filename is the download name of the usage workbook for year.
func Filename(year int) string {
	return fmt.Sprintf("annual_usage_%d.xlsx", year)
}

// WriteUsageXLSX renders usage as a single-sheet workbook: one header row, one row per client and a
// totals row.
func WriteUsageXLSX(w io.Writer, usage report.Usage) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := fmt.Sprintf("usage_%d", usage.Year)
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	if err := f.SetSheetRow(sheet, "A1", &usageHeader); err != nil {
		return errors.Wrap(err, "writing header")
	}

	row := 2
	for _, r := range usage.Rows {
		excelRow := []interface{}{
			r.Client.ID,
			r.Client.Name,
			r.Limits.CustomMakes.CurrentCount,
			r.Limits.CustomMakes.Limit,
			r.Limits.CustomMakeCost.CurrentTotal,
			r.Limits.CustomMakeCost.Limit,
			r.Limits.Repair.CurrentTotal,
			r.Limits.Repair.Limit,
			r.Limits.CustomMakes.IsExceeded,
		}
		if err := setRow(f, sheet, row, excelRow); err != nil {
			return err
		}
		row++
	}

	totals := []interface{}{
		"TOTAL",
		fmt.Sprintf("%d clients", usage.Totals.Clients),
		usage.Totals.CustomMakes,
		"",
		usage.Totals.CustomMakeCost,
		"",
		usage.Totals.RepairCost,
		"",
		usage.Totals.AtCountLimit,
	}
	if err := setRow(f, sheet, row, totals); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "locating row")
	}
	if err = f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "writing row %d", row)
	}
	return nil
}
