package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// queryInt reads an optional integer query param. A missing param yields 0.
func queryInt(ctx echo.Context, name string) (int64, error) {
	raw := strings.TrimSpace(ctx.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		msg := "must be an integer"
		return 0, core.NewValidationError(errors.Errorf("%s %s", name, msg), core.FieldError{Field: name, Error: msg})
	}
	return n, nil
}

// queryAmount reads a proposed won amount. Negative amounts are refused.
func queryAmount(ctx echo.Context) (int64, error) {
	amount, err := queryInt(ctx, "amount")
	if err != nil {
		return 0, err
	}
	if amount < 0 {
		msg := "must be zero or positive"
		return 0, core.NewValidationError(errors.New("amount "+msg), core.FieldError{Field: "amount", Error: msg})
	}
	return amount, nil
}

// queryYear reads the reporting year. 0 lets the evaluator pick its current year.
func queryYear(ctx echo.Context) (int, error) {
	year, err := queryInt(ctx, "year")
	if err != nil {
		return 0, err
	}
	if year != 0 && (year < 2000 || year > 9999) {
		msg := "out of range"
		return 0, core.NewValidationError(errors.New("year "+msg), core.FieldError{Field: "year", Error: msg})
	}
	return int(year), nil
}
