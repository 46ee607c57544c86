package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/ajuagency/collegia/apps/api/echo"
	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/catalog"
	"github.com/ajuagency/collegia/core/user"
	emailsvc "github.com/ajuagency/collegia/services/email"
	logsvc "github.com/ajuagency/collegia/services/logger"
	"github.com/ajuagency/collegia/storage/database"
	gormrepos "github.com/ajuagency/collegia/storage/database/gorm"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(std, err)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	db, err := database.Open(conf)
	errAndDie(std, err)
	defer database.Close(db)
	errAndDie(std, database.Ping(db))
	errAndDie(std, database.Migrate(db))

	// set up validators
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf)
	}
	usrSvc := user.NewService(gormrepos.NewUserRepository(db))
	catalogSvc := catalog.NewService(gormrepos.NewCatalogRepository(db))
	agencySvc := agency.NewService(gormrepos.NewAgencyRepository(db), catalogSvc, mailSvc, conf, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:    conf.Server.Host + ":" + conf.Server.Port,
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			UserSvc:    usrSvc,
			CatalogSvc: catalogSvc,
			AgencySvc:  agencySvc,
		},
	)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
