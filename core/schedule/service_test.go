package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/user"
	emailsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/email"
	inmemdb "github.com/Kris-Young-Kim/co-AT-sub000/storage/database/inmem"
	testutil "github.com/Kris-Young-Kim/co-AT-sub000/tests"
)

var now = time.Date(2026, time.May, 20, 3, 0, 0, 0, time.UTC)

func TestService_SendDigest(t *testing.T) {
	testutil.FreezeTime(t, now)
	ctx := context.Background()

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(core.NewTestConfig())
	svc := schedule.NewService(inmemdb.NewScheduleRepository(db), user.NewService(usrRepo), mailSvc, core.NewNopLogger())

	jisoo := testutil.CreateUser(t, usrRepo, "Park Jisoo", "jisoo", "jisoo@coat.kr", "", []string{core.RoleStaff}, true)
	gone := testutil.CreateUser(t, usrRepo, "Former", "former", "former@coat.kr", "", []string{core.RoleStaff}, false)
	actor := jisoo.Actor()

	tomorrow := time.Date(2026, time.May, 21, 0, 0, 0, 0, time.UTC)
	seed := []schedule.NewEntry{
		{ClientID: "c1", Kind: schedule.KindDelivery, Date: tomorrow.Add(10 * time.Hour), AssigneeID: null.StringFrom(jisoo.ID)},
		{ClientID: "c2", Kind: schedule.KindExpectedCompletion, Date: tomorrow.Add(14 * time.Hour), AssigneeID: null.StringFrom(jisoo.ID)},
		{ClientID: "c3", Kind: schedule.KindDelivery, Date: tomorrow, AssigneeID: null.StringFrom(gone.ID)},
		{ClientID: "c4", Kind: schedule.KindDelivery, Date: tomorrow},
		{ClientID: "c5", Kind: schedule.KindDelivery, Date: tomorrow.AddDate(0, 0, 1), AssigneeID: null.StringFrom(jisoo.ID)},
	}
	for _, ne := range seed {
		_, err := svc.Create(ctx, actor, ne)
		require.NoError(t, err)
	}
	// creation notices go to the active assignee only
	assert.Len(t, mailSvc.Sent(), 3)
	mailSvc.Reset()

	sent, err := svc.SendDigest(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	msgs := mailSvc.Sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "jisoo@coat.kr", msgs[0].To[0].Address)
	assert.Equal(t, "Schedule for 2026-05-21", msgs[0].Subject)
}

func TestService_Query(t *testing.T) {
	testutil.FreezeTime(t, now)
	ctx := context.Background()

	db := inmemdb.Open()
	svc := schedule.NewService(inmemdb.NewScheduleRepository(db), user.NewService(inmemdb.NewUserRepository(db)),
		emailsvc.NewConsoleServiceMock(core.NewTestConfig()), core.NewNopLogger())
	staff := core.Actor{UserID: "staff-1", Roles: []string{core.RoleStaff}}

	for _, d := range []time.Time{now.AddDate(0, 0, 3), now.AddDate(0, 2, 0)} {
		_, err := svc.Create(ctx, staff, schedule.NewEntry{ClientID: "c1", Kind: schedule.KindDelivery, Date: d})
		require.NoError(t, err)
	}

	// the default window is one month from today
	entries, err := svc.Query(ctx, staff, schedule.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "staff-1", entries[0].CreatedBy.String)

	entries, err = svc.Query(ctx, staff, schedule.QueryFilter{From: now, To: now.AddDate(1, 0, 0)})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = svc.Query(ctx, core.Actor{Roles: []string{core.RoleViewer}}, schedule.QueryFilter{})
	assert.Equal(t, core.ErrAuthorizationDenied, err)
}
