// Package inmemdb provides map-backed repositories, mainly for tests.
package inmemdb

import (
	"sync"

	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/settings"
	"github.com/arcacademy/courseflow/core/student"
	"github.com/arcacademy/courseflow/core/teacher"
)

type (
	DB struct {
		students  *studentTable
		courses   *courseTable
		schedules *scheduleTable
		approvals *approvalTable
		teachers  *teacherTable
		settings  *settingsTable
	}

	studentTable struct {
		sync.RWMutex
		rows []student.Student
	}

	courseTable struct {
		sync.RWMutex
		rows []catalog.Course
	}

	scheduleTable struct {
		sync.RWMutex
		rows []schedule.Schedule
	}

	approvalTable struct {
		sync.RWMutex
		rows []approval.Approval
	}

	teacherTable struct {
		sync.RWMutex
		rows []teacher.Teacher
	}

	settingsTable struct {
		sync.RWMutex
		doc settings.Settings
	}
)

func Open() (*DB, error) {
	db := &DB{
		students:  &studentTable{},
		courses:   &courseTable{},
		schedules: &scheduleTable{},
		approvals: &approvalTable{},
		teachers:  &teacherTable{},
		settings:  &settingsTable{doc: settings.Defaults()},
	}
	return db, nil
}
