package main

import (
	"log"
	"os"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/storage/database"
	gormrepos "github.com/ajuagency/collegia/storage/database/gorm"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer database.Close(db)
	errAndDie(database.Ping(db))

	// start CLI
	cli := commandLine{
		db:         db,
		usrRepo:    gormrepos.NewUserRepository(db),
		agencyRepo: gormrepos.NewAgencyRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
