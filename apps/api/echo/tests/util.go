package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/Kris-Young-Kim/co-AT-sub000/apps/api/echo"
	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/report"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/user"
	emailsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/email"
	inmemdb "github.com/Kris-Young-Kim/co-AT-sub000/storage/database/inmem"
	testutil "github.com/Kris-Young-Kim/co-AT-sub000/tests"
)

var (
	now = time.Date(2026, time.May, 20, 3, 0, 0, 0, time.UTC)

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type testEnv struct {
	conf       *core.Config
	db         *inmemdb.DB
	app        *echoapi.Server
	mailSvc    *emailsvc.ConsoleServiceMock
	usrRepo    user.Repository
	clientRepo client.Repository
	appRepo    application.Repository
	jobRepo    fabrication.Repository
	equipRepo  equipment.Repository

	admin  user.User
	staff  user.User
	viewer user.User
}

func setup(t *testing.T, configure ...func(conf *core.Config)) *testEnv {
	t.Helper()
	testutil.FreezeTime(t, now)

	conf := core.NewTestConfig()
	for _, fn := range configure {
		fn(conf)
	}
	db := inmemdb.Open()
	env := &testEnv{
		conf:       conf,
		db:         db,
		mailSvc:    emailsvc.NewConsoleServiceMock(conf),
		usrRepo:    inmemdb.NewUserRepository(db),
		clientRepo: inmemdb.NewClientRepository(db),
		appRepo:    inmemdb.NewApplicationRepository(db),
		jobRepo:    inmemdb.NewFabricationRepository(db),
		equipRepo:  inmemdb.NewEquipmentRepository(db),
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	application.InitValidators(validate, translator)
	equipment.InitValidators(validate, translator)
	fabrication.InitValidators(validate, translator)

	// set up services
	limits := limit.NewEvaluator(inmemdb.NewLimitStore(db), limit.OptionsFromConfig(conf.Limits), nil, nil)
	usrSvc := user.NewService(env.usrRepo)
	schedSvc := schedule.NewService(inmemdb.NewScheduleRepository(db), usrSvc, env.mailSvc, core.NewNopLogger())

	env.app = echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		ClientSvc:      client.NewService(env.clientRepo),
		Limits:         limits,
		ApplicationSvc: application.NewService(db, env.appRepo, env.clientRepo, limits),
		FabricationSvc: fabrication.NewService(db, env.jobRepo, env.clientRepo, env.equipRepo, limits, schedSvc, nil, nil),
		EquipmentSvc:   equipment.NewService(db, env.equipRepo),
		ScheduleSvc:    schedSvc,
		ReportSvc:      report.NewService(env.clientRepo, limits),
	})

	env.admin = testutil.CreateUser(t, env.usrRepo, "Admin", "admin", "admin@coat.kr", "Pass1234!", []string{core.RoleAdmin}, true)
	env.staff = testutil.CreateUser(t, env.usrRepo, "Park Jisoo", "jisoo", "jisoo@coat.kr", "Pass1234!", []string{core.RoleStaff}, true)
	env.viewer = testutil.CreateUser(t, env.usrRepo, "Lee Viewer", "viewer", "viewer@coat.kr", "Pass1234!", []string{core.RoleViewer}, true)
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newAuthRequest(method, path, token, data...)
	env.app.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) token(t *testing.T, usr user.User) string {
	t.Helper()
	return getToken(t, usr, env.conf)
}

type httpErr struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// result mirrors core.Result with the data left raw.
type result struct {
	Success bool                     `json:"success"`
	Data    json.RawMessage          `json:"data"`
	Error   string                   `json:"error"`
	Kind    core.ErrorKind           `json:"kind"`
	Limit   *core.LimitExceededError `json:"limit"`
	Fields  map[string]string        `json:"fields"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User, conf *core.Config) string {
	t.Helper()
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// decode reads a core.Result body and unmarshals its data into dest, when given.
func decode(t *testing.T, rec *httptest.ResponseRecorder, dest ...interface{}) result {
	t.Helper()
	var res result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	if len(dest) > 0 && len(res.Data) > 0 {
		require.NoError(t, json.Unmarshal(res.Data, dest[0]))
	}
	return res
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code)
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
