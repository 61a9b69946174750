package csvstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/settings"
	"github.com/arcacademy/courseflow/core/student"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	conf := &core.Config{
		MaxAcademicCourses: 7,
		MaxElectiveChoices: 5,
		Storage: core.StorageConfig{
			Engine:   "csv",
			DataDir:  filepath.Join(dir, "data"),
			StateDir: filepath.Join(dir, "state"),
		},
	}
	store, err := Open(conf)
	assert.NoError(t, err)
	return store
}

func TestOpenSeedsStarterData(t *testing.T) {
	store := testStore(t)

	for _, path := range []string{
		store.studentsPath, store.coursesPath, store.schedulesPath,
		store.teachersPath, store.approvalsPath, store.settingsPath,
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	courses, err := NewCatalogRepository(store).QueryAllCourses()
	assert.NoError(t, err)
	assert.NotEmpty(t, courses)

	gated := 0
	for _, crs := range courses {
		if crs.RequiresApproval {
			gated++
		}
	}
	assert.Equal(t, 2, gated)

	doc, err := NewSettingsRepository(store).LoadSettings()
	assert.NoError(t, err)
	assert.True(t, doc.GradeSubmissionLock["9"])
}

func TestOpenKeepsExistingData(t *testing.T) {
	store := testStore(t)

	repo := NewStudentRepository(store)
	_, err := repo.CreateStudent(student.Student{ID: "424242", Name: "Casey Ngo", GradeLevel: "11"})
	assert.NoError(t, err)

	// Re-opening the same dirs must not reseed over the data.
	store2, err := Open(store.conf)
	assert.NoError(t, err)

	stu, err := NewStudentRepository(store2).GetStudentByID("424242")
	assert.NoError(t, err)
	assert.Equal(t, "Casey Ngo", stu.Name)
}

func TestStudentRepositoryRoundTrip(t *testing.T) {
	repo := NewStudentRepository(testStore(t))

	_, err := repo.GetStudentByID("nope")
	assert.Equal(t, student.ErrNotFound, err)

	_, err = repo.CreateStudent(student.Student{ID: "300001", Name: "Riley Okafor", GradeLevel: "12"})
	assert.NoError(t, err)

	stu, err := repo.GetStudentByID("300001")
	assert.NoError(t, err)
	assert.Equal(t, "Riley Okafor", stu.Name)

	assert.NoError(t, repo.DeleteStudentByID("300001"))
	assert.Equal(t, student.ErrNotFound, repo.DeleteStudentByID("300001"))
}

func TestCatalogRepositoryBoolishColumns(t *testing.T) {
	store := testStore(t)
	repo := NewCatalogRepository(store)

	// Hand-edited files use assorted truthy spellings.
	records := [][]string{
		{"ART1", "Art I (ART1)", "Elective", "", "9", "12", "yes", "", "", "", ""},
		{"CHOIR", "Choir (CHOIR)", "Elective", "", "9", "12", "0", "", "", "", ""},
		{"DEBATE", "Debate (DEBATE)", "Elective", "", "9", "12", "TRUE", "", "", "", ""},
	}
	assert.NoError(t, writeRows(store.coursesPath, coursesHeader, records))

	courses, err := repo.QueryAllCourses()
	assert.NoError(t, err)
	assert.Len(t, courses, 3)
	assert.True(t, courses[0].RequiresApproval)
	assert.False(t, courses[1].RequiresApproval)
	assert.True(t, courses[2].RequiresApproval)

	// Writes normalize back to TRUE/FALSE.
	assert.NoError(t, repo.ReplaceCourses(courses))
	rows, err := readRows(store.coursesPath)
	assert.NoError(t, err)
	assert.Equal(t, "TRUE", rows[0]["requires_approval"])
	assert.Equal(t, "FALSE", rows[1]["requires_approval"])
}

func TestScheduleRepositoryFixedWidthSlots(t *testing.T) {
	store := testStore(t)
	repo := NewScheduleRepository(store)

	sched := schedule.Schedule{
		StudentID:           "100001",
		StudentName:         "Avery Johnson",
		GradeLevel:          "9",
		AcademicCourses:     []string{"English 9 (ENG9)", "Algebra I (ALG1)"},
		ElectiveCourses:     []string{"Choir (CHOIR)"},
		SpecialInstructions: "needs first-floor rooms",
		Reviewed:            true,
	}
	assert.NoError(t, repo.UpsertSchedule(sched))

	rows, err := readRows(store.schedulesPath)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "English 9 (ENG9)", rows[0]["period_1"])
	assert.Equal(t, "", rows[0]["period_3"])
	assert.Equal(t, "", rows[0]["period_7"])
	assert.Equal(t, "Choir (CHOIR)", rows[0]["elective_1"])
	assert.Equal(t, "", rows[0]["elective_5"])
	assert.Equal(t, "TRUE", rows[0]["reviewed"])

	got, err := repo.GetScheduleByStudentID("100001")
	assert.NoError(t, err)
	assert.Equal(t, sched, got)

	// Upsert replaces in place, no duplicate row.
	sched.AcademicCourses = []string{"Biology (BIO)"}
	assert.NoError(t, repo.UpsertSchedule(sched))
	schedules, err := repo.QueryAllSchedules()
	assert.NoError(t, err)
	assert.Len(t, schedules, 1)
	assert.Equal(t, []string{"Biology (BIO)"}, schedules[0].AcademicCourses)
}

func TestApprovalRepositoryScopedReplace(t *testing.T) {
	store := testStore(t)
	repo := NewApprovalRepository(store)

	now, _ := time.Parse(approval.TimeLayout, "2026-01-15 09:30:00")
	seedRows := []approval.Approval{
		{StudentID: "100001", CourseCode: "BIO", Status: approval.StatusApproved, TeacherEmail: "singh@school.org", UpdatedAt: now},
		{StudentID: "100002", CourseCode: "BIO", Status: approval.StatusPending, TeacherEmail: "singh@school.org", UpdatedAt: now},
	}
	assert.NoError(t, repo.ReplaceApprovals(seedRows))

	// Replacing one student's rows must leave the other student alone.
	assert.NoError(t, repo.ReplaceStudentApprovals("100001", []approval.Approval{
		{StudentID: "100001", CourseCode: "WELD1", Status: approval.StatusPending, TeacherEmail: "gomez@school.org", UpdatedAt: now},
	}))

	all, err := repo.QueryAllApprovals()
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	other, err := repo.GetApproval("100002", "BIO")
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusPending, other.Status)
	assert.Equal(t, now, other.UpdatedAt)

	_, err = repo.GetApproval("100001", "BIO")
	assert.Equal(t, approval.ErrNotFound, err)

	assert.NoError(t, repo.DeleteApprovalsByCourseCode("WELD1"))
	mine, err := repo.QueryApprovalsByStudentID("100001")
	assert.NoError(t, err)
	assert.Empty(t, mine)
}

func TestSettingsRepositoryRoundTrip(t *testing.T) {
	repo := NewSettingsRepository(testStore(t))

	doc, err := repo.LoadSettings()
	assert.NoError(t, err)

	doc.GradeSubmissionLock["10"] = false
	doc.SubjectColors["Robotics"] = "#123456"
	assert.NoError(t, repo.SaveSettings(doc))

	got, err := repo.LoadSettings()
	assert.NoError(t, err)
	assert.False(t, got.GradeSubmissionLock["10"])
	assert.True(t, got.GradeSubmissionLock["9"])
	assert.Equal(t, "#123456", got.SubjectColors["Robotics"])
	assert.Equal(t, settings.DefaultSubjectColors["Math"], got.SubjectColors["Math"])
}

func TestCatalogRepositoryNotFound(t *testing.T) {
	repo := NewCatalogRepository(testStore(t))

	_, err := repo.GetCourseByCode("NOPE")
	assert.Equal(t, catalog.ErrNotFound, err)

	_, err = repo.UpdateCourse(catalog.Course{Code: "NOPE"})
	assert.Equal(t, catalog.ErrNotFound, err)

	assert.Equal(t, catalog.ErrNotFound, repo.DeleteCourseByCode("NOPE"))
}
