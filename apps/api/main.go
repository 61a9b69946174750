package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/arcacademy/courseflow/apps/api/echo"
	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/settings"
	"github.com/arcacademy/courseflow/core/student"
	"github.com/arcacademy/courseflow/core/teacher"
	emailsvc "github.com/arcacademy/courseflow/services/email"
	logsvc "github.com/arcacademy/courseflow/services/logger"
	"github.com/arcacademy/courseflow/storage/database"
	csvstore "github.com/arcacademy/courseflow/storage/csv"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up record store
	repos, closeStore, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer closeStore()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	catalogSvc := catalog.NewService(repos.catalog)
	studentSvc := student.NewService(repos.student)
	settingsSvc := settings.NewService(repos.settings)
	teacherSvc := teacher.NewService(repos.teacher)
	approvalSvc := approval.NewService(repos.approval, repos.catalog, mailSvc, conf)
	scheduleSvc := schedule.NewService(repos.schedule, repos.catalog, repos.student, approvalSvc, conf)

	// notification emails greet students by name when the roster knows them
	approvalSvc.SetStudentLookup(func(studentID string) (string, string, bool) {
		stu, err := studentSvc.GetByID(studentID)
		if err != nil {
			return "", "", false
		}
		return stu.Name, stu.GradeLevel, true
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(
		conf.Server.Address(),
		func() { shutdown <- syscall.SIGTERM },
		&echoapi.Deps{
			Conf:        conf,
			Logger:      logger,
			Validate:    validate,
			Translator:  translator,
			CatalogSvc:  catalogSvc,
			StudentSvc:  studentSvc,
			ScheduleSvc: scheduleSvc,
			ApprovalSvc: approvalSvc,
			SettingsSvc: settingsSvc,
			TeacherSvc:  teacherSvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

// repoSet regroups one repository per collection, whatever the backend.
type repoSet struct {
	student  student.Repository
	catalog  catalog.Repository
	schedule schedule.Repository
	approval approval.Repository
	teacher  teacher.Repository
	settings settings.Repository
}

func setUpStorage(conf *core.Config) (repoSet, func(), error) {
	switch conf.Storage.Engine {
	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return repoSet{}, nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return repoSet{}, nil, err
		}
		if err := database.EnsureSchema(db); err != nil {
			_ = db.Close()
			return repoSet{}, nil, err
		}
		return repoSet{
			student:  database.NewStudentRepository(db),
			catalog:  database.NewCatalogRepository(db),
			schedule: database.NewScheduleRepository(db),
			approval: database.NewApprovalRepository(db),
			teacher:  database.NewTeacherRepository(db),
			settings: database.NewSettingsRepository(db),
		}, func() { _ = db.Close() }, nil

	default: // csv
		store, err := csvstore.Open(conf)
		if err != nil {
			return repoSet{}, nil, err
		}
		return repoSet{
			student:  csvstore.NewStudentRepository(store),
			catalog:  csvstore.NewCatalogRepository(store),
			schedule: csvstore.NewScheduleRepository(store),
			approval: csvstore.NewApprovalRepository(store),
			teacher:  csvstore.NewTeacherRepository(store),
			settings: csvstore.NewSettingsRepository(store),
		}, func() {}, nil
	}
}

func newTranslator() ut.Translator {
	lang := en.New()
	uni := ut.New(lang, lang)
	translator, _ := uni.GetTranslator("en")
	return translator
}
