package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/user"
	testutil "github.com/Kris-Young-Kim/co-AT-sub000/tests"
)

func Test_userApi_login(t *testing.T) {
	env := setup(t)
	testutil.CreateUser(t, env.usrRepo, "Gone", "gone", "gone@coat.kr", "Pass1234!", []string{core.RoleStaff}, false)

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing fields",
			body:     user.LoginRequest{},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid input",
		},
		{
			name:     "wrong password",
			body:     user.LoginRequest{Username: "jisoo", Password: "nope"},
			wantCode: http.StatusBadRequest,
			wantErr:  "authentication failed",
		},
		{
			name:     "unknown user",
			body:     user.LoginRequest{Username: "nobody", Password: "Pass1234!"},
			wantCode: http.StatusBadRequest,
			wantErr:  "authentication failed",
		},
		{
			name:     "deactivated",
			body:     user.LoginRequest{Username: "gone", Password: "Pass1234!"},
			wantCode: http.StatusForbidden,
			wantErr:  "account deactivated",
		},
		{
			name:     "by username",
			body:     user.LoginRequest{Username: "jisoo", Password: "Pass1234!"},
			wantCode: http.StatusOK,
		},
		{
			name:     "by email",
			body:     user.LoginRequest{Username: "JISOO@coat.kr", Password: "Pass1234!"},
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/v1/users/login", "", marchallObj(t, tt.body))
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp struct {
				Token string `json:"token"`
			}
			res := decode(t, rec, &resp)
			if tt.wantErr != "" {
				assert.False(t, res.Success)
				assert.Equal(t, tt.wantErr, res.Error)
				return
			}
			assert.True(t, res.Success)
			assert.NotEmpty(t, resp.Token)

			// the token grants access
			rec = env.do(t, http.MethodGet, "/v1/users/me", resp.Token)
			var me user.User
			decode(t, rec, &me)
			assert.Equal(t, env.staff.ID, me.ID)
			assert.True(t, me.LastLogin.Valid)
		})
	}
}

func Test_userApi_login_rateLimited(t *testing.T) {
	env := setup(t, func(conf *core.Config) { conf.Server.LoginRatePerMinute = 2 })

	body := marchallObj(t, user.LoginRequest{Username: "jisoo", Password: "nope"})
	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/v1/users/login", "", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/v1/users/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func Test_userApi_authRequired(t *testing.T) {
	env := setup(t)

	tests := []httpTest{
		{
			name:     "missing token",
			method:   http.MethodGet,
			path:     "/v1/users/me",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "invalid token",
			method:   http.MethodGet,
			path:     "/v1/clients",
			token:    "not-a-jwt",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "non admin creating user",
			method:   http.MethodPost,
			path:     "/v1/users",
			token:    env.token(t, env.staff),
			body:     marchallObj(t, user.NewUser{Name: "X", Username: "xxxx", Password: "a", PasswordConfirm: "a"}),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "non admin listing users",
			method:   http.MethodGet,
			path:     "/v1/users",
			token:    env.token(t, env.viewer),
			wantCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_create(t *testing.T) {
	env := setup(t)
	token := env.token(t, env.admin)

	t.Run("created", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/users", token, marchallObj(t, user.NewUser{
			Name:            "Choi Staff",
			Username:        "choi",
			Email:           "choi@coat.kr",
			Password:        "Welcome#2026",
			PasswordConfirm: "Welcome#2026",
			Roles:           []string{core.RoleStaff},
		}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var usr user.User
		decode(t, rec, &usr)
		assert.Equal(t, "choi", usr.Username)
		assert.Equal(t, []string{core.RoleStaff}, []string(usr.Roles))
	})

	t.Run("duplicate username", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/users", token, marchallObj(t, user.NewUser{
			Name:            "Other",
			Username:        "jisoo",
			Password:        "Welcome#2026",
			PasswordConfirm: "Welcome#2026",
		}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		res := decode(t, rec)
		assert.Equal(t, core.KindValidation, res.Kind)
		assert.Contains(t, res.Fields, "username")
	})

	t.Run("password mismatch", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/users", token, marchallObj(t, user.NewUser{
			Name:            "Other",
			Username:        "other",
			Password:        "Welcome#2026",
			PasswordConfirm: "Welcome#2025",
		}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec).Fields, "password_confirm")
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/users/token-refresh", env.token(t, env.staff))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)
}
