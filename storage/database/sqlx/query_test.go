package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
)

func TestFabricationRepository_QueryJobs(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewFabricationRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM custom_makes WHERE client_id = $1 AND progress_status = $2 ORDER BY created_at DESC")).
		WithArgs("c1", fabrication.StatusDesign).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("j1"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM custom_makes ORDER BY created_at DESC")).
		WithArgs().
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	jobs, err := repo.QueryJobs(ctx, fabrication.QueryFilter{ClientID: "c1", Status: fabrication.StatusDesign})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].ID)

	jobs, err = repo.QueryJobs(ctx, fabrication.QueryFilter{})
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_QueryClients(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM clients WHERE (name ILIKE $1 OR phone LIKE $2) ORDER BY created_at DESC")).
		WithArgs("%minji%", "%minji%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("c1", "Kim Minji"))

	clients, err := repo.QueryClients(context.Background(), client.QueryFilter{
		Search: "minji",
		Ordering: []core.DBOrdering{
			{Field: "created_at"},
			{Field: "password_hash", Ascending: true}, // not an allowed column
		},
	})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Kim Minji", clients[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentRepository_QueryEquipment(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewEquipmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM equipment WHERE status = $1 ORDER BY name")).
		WithArgs(equipment.StatusAvailable).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("e1", equipment.StatusAvailable))

	eqs, err := repo.QueryEquipment(context.Background(), equipment.QueryFilter{Status: equipment.StatusAvailable})
	require.NoError(t, err)
	require.Len(t, eqs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepository_QueryEntries(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewScheduleRepository(db)
	from := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM schedules WHERE scheduled_date >= $1 AND scheduled_date < $2 AND assignee_id = $3 ORDER BY scheduled_date")).
		WithArgs(from, to, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	entries, err := repo.QueryEntries(context.Background(), schedule.QueryFilter{From: from, To: to, AssigneeID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}
