package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/application"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/client"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/equipment"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/fabrication"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/report"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/schedule"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/user"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		UserSvc        *user.Service
		ClientSvc      *client.Service
		Limits         *limit.Evaluator
		ApplicationSvc *application.Service
		FabricationSvc *fabrication.Service
		EquipmentSvc   *equipment.Service
		ScheduleSvc    *schedule.Service
		ReportSvc      *report.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = core.NewNopLogger()
	}
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.auth.jwtConfig)

	registerUserAPI(v1, jwt, s.auth, newLoginLimiter(conf.Server.LoginRatePerMinute), s.deps)
	registerClientAPI(v1, jwt, s.deps)
	registerApplicationAPI(v1, jwt, s.deps)
	registerCustomMakeAPI(v1, jwt, s.deps)
	registerEquipmentAPI(v1, jwt, s.deps)
	registerScheduleAPI(v1, jwt, s.deps)
	registerReportAPI(v1, jwt, s.deps)
}

// Start blocks until the server stops. Errors other than a regular close are sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to co-AT API!")
}

// respond wraps data in a successful core.Result.
func respond(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, core.Succeed(data))
}
