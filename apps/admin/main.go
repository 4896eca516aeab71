package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/limit"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/report"
	"github.com/Kris-Young-Kim/co-AT-sub000/core/user"
	logsvc "github.com/Kris-Young-Kim/co-AT-sub000/services/logger"
	"github.com/Kris-Young-Kim/co-AT-sub000/storage/database"
	sqlxrepos "github.com/Kris-Young-Kim/co-AT-sub000/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	limits := limit.NewEvaluator(sqlxrepos.NewLimitStore(db), limit.OptionsFromConfig(conf.Limits), logger, nil)

	// start CLI
	cli := commandLine{
		db:       db.DB,
		validate: validate,
		usrSvc:   user.NewService(sqlxrepos.NewUserRepository(db)),
		reports:  report.NewService(sqlxrepos.NewClientRepository(db), limits),
		out:      os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}
