package schedule_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/student"
	inmemdb "github.com/arcacademy/courseflow/storage/inmem"
)

var (
	testCourses = []catalog.Course{
		{Code: "ENG9", Name: "English 9 (ENG9)", SubjectArea: "ELA", TeacherEmail: "patel@school.org"},
		{Code: "ALG1", Name: "Algebra I (ALG1)", SubjectArea: "Math", TeacherEmail: "chen@school.org"},
		{Code: "BIO", Name: "Biology (BIO)", SubjectArea: "Science", RequiresApproval: true, TeacherName: "A. Singh", TeacherEmail: "singh@school.org"},
		{Code: "WELD1", Name: "Welding I (WELD1)", SubjectArea: "CTE", RequiresApproval: true, TeacherName: "T. Gomez", TeacherEmail: "gomez@school.org"},
	}
	testStudents = []student.Student{
		{ID: "100001", Name: "Avery Johnson", GradeLevel: "9"},
		{ID: "100002", Name: "Jordan Lee", GradeLevel: "10"},
	}
)

type testEnv struct {
	schedSvc    *schedule.Service
	approvalSvc *approval.Service
}

func setup(t *testing.T) testEnv {
	t.Helper()

	db, err := inmemdb.Open()
	assert.NoError(t, err)

	catalogRepo := inmemdb.NewCatalogRepository(db)
	assert.NoError(t, catalogRepo.ReplaceCourses(testCourses))
	studentRepo := inmemdb.NewStudentRepository(db)
	assert.NoError(t, studentRepo.ReplaceStudents(testStudents))

	conf := &core.Config{TestMode: true, MaxAcademicCourses: 7, MaxElectiveChoices: 5}
	approvalSvc := approval.NewService(inmemdb.NewApprovalRepository(db), catalogRepo, nil, conf)
	schedSvc := schedule.NewService(inmemdb.NewScheduleRepository(db), catalogRepo, studentRepo, approvalSvc, conf)
	return testEnv{schedSvc: schedSvc, approvalSvc: approvalSvc}
}

func TestUpsertTruncatesToSlotLimits(t *testing.T) {
	env := setup(t)

	academic := make([]string, 9)
	for i := range academic {
		academic[i] = fmt.Sprintf("Course %d", i+1)
	}
	elective := make([]string, 6)
	for i := range elective {
		elective[i] = fmt.Sprintf("Elective %d", i+1)
	}

	sched, err := env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: "100001", StudentName: "Avery Johnson", GradeLevel: "9",
		AcademicCourses: academic, ElectiveCourses: elective,
	})
	assert.NoError(t, err)
	assert.Len(t, sched.AcademicCourses, 7)
	assert.Equal(t, academic[:7], sched.AcademicCourses)
	assert.Len(t, sched.ElectiveCourses, 5)
}

func TestUpsertPreservesReviewedAndReconciles(t *testing.T) {
	env := setup(t)

	_, err := env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: "100001", StudentName: "Avery Johnson", GradeLevel: "9",
		AcademicCourses: []string{"Biology (BIO)"},
	})
	assert.NoError(t, err)

	rows, err := env.approvalSvc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, approval.StatusPending, rows[0].Status)

	_, err = env.schedSvc.MarkReviewed("100001", true)
	assert.NoError(t, err)

	// saving again keeps the reviewed flag and prunes the dropped course
	sched, err := env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: "100001", StudentName: "Avery Johnson", GradeLevel: "9",
		AcademicCourses: []string{"English 9 (ENG9)"},
	})
	assert.NoError(t, err)
	assert.True(t, sched.Reviewed)

	rows, err = env.approvalSvc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestResetCascadesToApprovals(t *testing.T) {
	env := setup(t)

	_, err := env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: "100001", StudentName: "Avery Johnson", GradeLevel: "9",
		AcademicCourses: []string{"Biology (BIO)"},
	})
	assert.NoError(t, err)

	assert.NoError(t, env.schedSvc.Reset("100001"))

	_, err = env.schedSvc.QueryAll()
	assert.NoError(t, err)

	rows, err := env.approvalSvc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Empty(t, rows)

	assert.Equal(t, schedule.ErrNotFound, env.schedSvc.Reset("100001"))
}

func TestResetPrunesStrayApprovals(t *testing.T) {
	env := setup(t)

	// approval rows without a schedule row, as left by a hand-edited file
	assert.NoError(t, env.approvalSvc.Reconcile("100001", []string{"Biology (BIO)"}))

	assert.Equal(t, schedule.ErrNotFound, env.schedSvc.Reset("100001"))

	rows, err := env.approvalSvc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetForStudentDefaultsAndSelfHeals(t *testing.T) {
	env := setup(t)
	stu := testStudents[0]

	// unscheduled student gets an empty schedule carrying roster identity
	sched, err := env.schedSvc.GetForStudent(stu)
	assert.NoError(t, err)
	assert.Equal(t, stu.ID, sched.StudentID)
	assert.Equal(t, stu.Name, sched.StudentName)
	assert.Empty(t, sched.AcademicCourses)

	_, err = env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: stu.ID, StudentName: stu.Name, GradeLevel: stu.GradeLevel,
		AcademicCourses: []string{"Biology (BIO)"},
	})
	assert.NoError(t, err)

	// simulate an out-of-band wipe of the ledger; reading heals it
	assert.NoError(t, env.approvalSvc.DeleteForStudent(stu.ID))
	_, err = env.schedSvc.GetForStudent(stu)
	assert.NoError(t, err)

	rows, err := env.approvalSvc.QueryByStudentID(stu.ID)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "BIO", rows[0].CourseCode)
}

func TestItemize(t *testing.T) {
	env := setup(t)

	assert.NoError(t, env.approvalSvc.Reconcile("100001", []string{"Biology (BIO)"}))
	_, err := env.approvalSvc.SetDecision("singh@school.org", approval.Decision{
		StudentID: "100001", CourseCode: "BIO", Status: approval.StatusRejected,
	})
	assert.NoError(t, err)

	sched := schedule.Schedule{
		StudentID:       "100001",
		AcademicCourses: []string{"Biology (BIO)", "English 9 (ENG9)", "Mystery Course (ZZZ)"},
		ElectiveCourses: []string{"Welding I (WELD1)"},
	}
	academic, elective, err := env.schedSvc.Itemize("100001", sched)
	assert.NoError(t, err)
	assert.Len(t, academic, 3)
	assert.Len(t, elective, 1)

	bio := academic[0]
	assert.True(t, bio.RequiresApproval)
	assert.Equal(t, approval.StatusRejected, bio.ApprovalStatus)
	assert.Equal(t, "Science", bio.SubjectArea)

	eng := academic[1]
	assert.False(t, eng.RequiresApproval)
	assert.Equal(t, approval.StatusApproved, eng.ApprovalStatus)

	// unknown course degrades gracefully
	zzz := academic[2]
	assert.False(t, zzz.RequiresApproval)
	assert.Equal(t, "Other", zzz.SubjectArea)
	assert.Equal(t, "ZZZ", zzz.CourseCode)

	// no row yet: required course reads pending
	weld := elective[0]
	assert.True(t, weld.RequiresApproval)
	assert.Equal(t, approval.StatusPending, weld.ApprovalStatus)
}

func TestItemizeAnonymousPreview(t *testing.T) {
	env := setup(t)

	sched := schedule.Schedule{AcademicCourses: []string{"Biology (BIO)"}}
	academic, _, err := env.schedSvc.Itemize("", sched)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusPending, academic[0].ApprovalStatus)
}

func TestCountPendingRejected(t *testing.T) {
	env := setup(t)

	_, err := env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: "100001", StudentName: "Avery Johnson", GradeLevel: "9",
		AcademicCourses: []string{"Biology (BIO)", "Welding I (WELD1)", "English 9 (ENG9)"},
	})
	assert.NoError(t, err)

	_, err = env.approvalSvc.SetDecision("gomez@school.org", approval.Decision{
		StudentID: "100001", CourseCode: "WELD1", Status: approval.StatusRejected,
	})
	assert.NoError(t, err)

	sched, err := env.schedSvc.GetForStudent(testStudents[0])
	assert.NoError(t, err)

	pending, rejected, err := env.schedSvc.CountPendingRejected("100001", sched)
	assert.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, rejected)

	// duplicate selections of the same course count once
	sched.ElectiveCourses = []string{"Biology again (BIO)"}
	pending, rejected, err = env.schedSvc.CountPendingRejected("100001", sched)
	assert.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, rejected)
}

func TestTeacherRoster(t *testing.T) {
	env := setup(t)

	_, err := env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: "100001", StudentName: "Avery Johnson", GradeLevel: "9",
		AcademicCourses: []string{"Biology (BIO)"},
	})
	assert.NoError(t, err)
	_, err = env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: "100002", StudentName: "Jordan Lee", GradeLevel: "10",
		AcademicCourses: []string{"Biology (BIO)", "Algebra I (ALG1)"},
	})
	assert.NoError(t, err)

	_, err = env.approvalSvc.SetDecision("singh@school.org", approval.Decision{
		StudentID: "100002", CourseCode: "BIO", Status: approval.StatusApproved,
	})
	assert.NoError(t, err)

	roster, err := env.schedSvc.TeacherRoster("Singh@School.org")
	assert.NoError(t, err)
	assert.Len(t, roster, 1)
	assert.Equal(t, "BIO", roster[0].Course.Code)

	students := roster[0].Students
	assert.Len(t, students, 2)
	// sorted by name
	assert.Equal(t, "Avery Johnson", students[0].StudentName)
	assert.Equal(t, approval.StatusPending, students[0].ApprovalStatus)
	assert.Equal(t, "Jordan Lee", students[1].StudentName)
	assert.Equal(t, approval.StatusApproved, students[1].ApprovalStatus)

	// teachers without gated requests still get their course list
	roster, err = env.schedSvc.TeacherRoster("gomez@school.org")
	assert.NoError(t, err)
	assert.Len(t, roster, 1)
	assert.Empty(t, roster[0].Students)
}

func TestStudentOverview(t *testing.T) {
	env := setup(t)

	_, err := env.schedSvc.Upsert(schedule.UpsertSchedule{
		StudentID: "100001", StudentName: "Avery Johnson", GradeLevel: "9",
		AcademicCourses: []string{"Biology (BIO)", "English 9 (ENG9)"},
		ElectiveCourses: []string{"Welding I (WELD1)", "Choir (CHOIR)"},
	})
	assert.NoError(t, err)

	rows, err := env.schedSvc.StudentOverview(schedule.OverviewFilter{})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	var avery, jordan schedule.OverviewRow
	for _, row := range rows {
		switch row.StudentID {
		case "100001":
			avery = row
		case "100002":
			jordan = row
		}
	}
	assert.True(t, avery.Scheduled)
	assert.Equal(t, 2, avery.PendingApprovals)
	assert.Equal(t, "Welding I (WELD1)", avery.TopElective)
	assert.False(t, jordan.Scheduled)

	// name filter is case-insensitive
	rows, err = env.schedSvc.StudentOverview(schedule.OverviewFilter{Name: "avery"})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)

	// grade filter
	rows, err = env.schedSvc.StudentOverview(schedule.OverviewFilter{Grade: "10"})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "100002", rows[0].StudentID)

	// course filter matches selections
	rows, err = env.schedSvc.StudentOverview(schedule.OverviewFilter{Course: "bio"})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "100001", rows[0].StudentID)

	// every elective slot is searchable, not just the top pick
	rows, err = env.schedSvc.StudentOverview(schedule.OverviewFilter{Course: "choir"})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "100001", rows[0].StudentID)
	assert.Equal(t, []string{"Welding I (WELD1)", "Choir (CHOIR)"}, rows[0].ElectiveCourses)
}
