package tests

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/report"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
	reportsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/report"
	testutil "github.com/Kris-Young-Kim/co-AT-sub000/tests"
)

func Test_scheduleApi_fromCustomMake(t *testing.T) {
	env := setup(t)
	token := env.token(t, env.staff)
	c := testutil.CreateClient(t, env.clientRepo, "Kim Minji")

	due := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	staffID := env.staff.ID
	rec := env.do(t, http.MethodPost, "/v1/custom-makes", token, marchallObj(t, fabrication.NewJob{
		ClientID:               c.ID,
		Title:                  "walker grip",
		AssignedStaffID:        &staffID,
		ExpectedCompletionDate: &due,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/v1/schedules?from=2026-06-01&to=2026-07-01", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var entries []schedule.Entry
	decode(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, schedule.KindExpectedCompletion, entries[0].Kind)
	assert.True(t, due.Equal(entries[0].Date))
	assert.Equal(t, staffID, entries[0].AssigneeID.String)

	// the assignee was notified
	sent := env.mailSvc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "jisoo@coat.kr", sent[0].To[0].Address)

	rec = env.do(t, http.MethodGet, "/v1/schedules?from=2026-07-01&to=2026-08-01", token)
	decode(t, rec, &entries)
	assert.Empty(t, entries)

	rec = env.do(t, http.MethodGet, "/v1/schedules?from=June", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_reportApi_usage(t *testing.T) {
	env := setup(t)
	token := env.token(t, env.staff)
	c1 := testutil.CreateClient(t, env.clientRepo, "Kim Minji")
	testutil.CreateClient(t, env.clientRepo, "Idle Client")
	env.seedJob(t, c1.ID, fabrication.StatusCompleted, i64(30000))
	env.seedJob(t, c1.ID, fabrication.StatusDelivery, i64(20000))

	t.Run("json", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/reports/usage?year=2026", token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var usage report.Usage
		decode(t, rec, &usage)
		assert.Equal(t, 2026, usage.Year)
		require.Len(t, usage.Rows, 1)
		assert.Equal(t, c1.ID, usage.Rows[0].Client.ID)
		assert.Equal(t, report.Totals{
			Clients:        2,
			CustomMakes:    2,
			CustomMakeCost: 50000,
			AtCountLimit:   1,
		}, usage.Totals)
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/reports/usage.xlsx?year=2026", token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, reportsvc.ContentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), reportsvc.Filename(2026))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		name, err := f.GetCellValue("usage_2026", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Kim Minji", name)
	})

	t.Run("viewer", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/reports/usage.xlsx", env.token(t, env.viewer))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
