package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

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
	cronsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/cron"
	emailsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/email"
	logsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/logger"
	metricsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/metrics"
	"github.com/Kris-Young-Kim/co-AT-sub000/storage/database"
	sqlxrepos "github.com/Kris-Young-Kim/co-AT-sub000/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up repos
	tx := database.NewTransactor(db)
	usrRepo := sqlxrepos.NewUserRepository(db)
	clientRepo := sqlxrepos.NewClientRepository(db)
	appRepo := sqlxrepos.NewApplicationRepository(db)
	equipRepo := sqlxrepos.NewEquipmentRepository(db)
	jobRepo := sqlxrepos.NewFabricationRepository(db)
	schedRepo := sqlxrepos.NewScheduleRepository(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	metrics := metricsvc.NewPrometheusMetrics(prometheus.DefaultRegisterer, conf.AppName)

	limits := limit.NewEvaluator(sqlxrepos.NewLimitStore(db), limit.OptionsFromConfig(conf.Limits), logger, metrics)
	usrSvc := user.NewService(usrRepo)
	schedSvc := schedule.NewService(schedRepo, usrSvc, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	application.InitValidators(validate, translator)
	equipment.InitValidators(validate, translator)
	fabrication.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - prometheus counters.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Background Jobs

	cron := cronsvc.NewScheduler(schedSvc, logger)
	if conf.Notifications.DigestSchedule != "" {
		if err = cron.Start(conf.Notifications.DigestSchedule); err != nil {
			logger.Fatal(fmt.Sprintf("starting cron: %v", err), err)
		}
	}

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:           conf,
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			UserSvc:        usrSvc,
			ClientSvc:      client.NewService(clientRepo),
			Limits:         limits,
			ApplicationSvc: application.NewService(tx, appRepo, clientRepo, limits),
			FabricationSvc: fabrication.NewService(tx, jobRepo, clientRepo, equipRepo, limits, schedSvc, logger, metrics),
			EquipmentSvc:   equipment.NewService(tx, equipRepo),
			ScheduleSvc:    schedSvc,
			ReportSvc:      report.NewService(clientRepo, limits),
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		cron.Stop(ctx)

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}
