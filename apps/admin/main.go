package main

import (
	"log"
	"os"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/student"
	"github.com/arcacademy/courseflow/core/teacher"
	"github.com/arcacademy/courseflow/storage/database"
	csvstore "github.com/arcacademy/courseflow/storage/csv"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	cli, cleanup, err := setUpCLI(conf)
	errAndDie(err)
	defer cleanup()

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func setUpCLI(conf *core.Config) (*commandLine, func(), error) {
	switch conf.Storage.Engine {
	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		cli := &commandLine{
			teacherSvc: teacher.NewService(database.NewTeacherRepository(db)),
			studentSvc: student.NewService(database.NewStudentRepository(db)),
			catalogSvc: catalog.NewService(database.NewCatalogRepository(db)),
		}
		return cli, func() { _ = db.Close() }, nil

	default: // csv; Open seeds starter files on first run
		store, err := csvstore.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		cli := &commandLine{
			teacherSvc: teacher.NewService(csvstore.NewTeacherRepository(store)),
			studentSvc: student.NewService(csvstore.NewStudentRepository(store)),
			catalogSvc: catalog.NewService(csvstore.NewCatalogRepository(store)),
		}
		return cli, func() {}, nil
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
