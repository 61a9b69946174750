package approval_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	emailsvc "github.com/arcacademy/courseflow/services/email"
	inmemdb "github.com/arcacademy/courseflow/storage/inmem"
)

var testCourses = []catalog.Course{
	{Code: "BIO", Name: "Biology (BIO)", SubjectArea: "Science", RequiresApproval: true, TeacherName: "A. Singh", TeacherEmail: "Singh@School.org"},
	{Code: "WELD1", Name: "Welding I (WELD1)", SubjectArea: "CTE", RequiresApproval: true, TeacherName: "T. Gomez", TeacherEmail: "gomez@school.org"},
	{Code: "ENG9", Name: "English 9 (ENG9)", SubjectArea: "ELA", TeacherEmail: "patel@school.org"},
}

func setup(t *testing.T) (*approval.Service, approval.Repository) {
	t.Helper()

	db, err := inmemdb.Open()
	assert.NoError(t, err)

	catalogRepo := inmemdb.NewCatalogRepository(db)
	assert.NoError(t, catalogRepo.ReplaceCourses(testCourses))

	conf := &core.Config{AppName: "Courseflow", TestMode: true}
	emailsvc.ClearSentMessages()

	repo := inmemdb.NewApprovalRepository(db)
	svc := approval.NewService(repo, catalogRepo, emailsvc.NewConsoleService(conf), conf)
	svc.SetStudentLookup(func(studentID string) (string, string, bool) {
		if studentID == "100001" {
			return "Avery Johnson", "9", true
		}
		return "", "", false
	})
	return svc, repo
}

func mockNow(t *testing.T, value string) time.Time {
	t.Helper()

	now, err := time.Parse(approval.TimeLayout, value)
	assert.NoError(t, err)
	approval.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { approval.NowFunc = time.Now })
	return now
}

func TestReconcileCreatesPendingForRequiredCourses(t *testing.T) {
	svc, _ := setup(t)
	now := mockNow(t, "2026-02-01 08:00:00")

	selection := []string{
		"Biology (BIO)",
		"English 9 (ENG9)",      // known, no approval needed
		"Underwater Basket (X)", // unknown code
		"free text entry",       // no code at all
	}
	assert.NoError(t, svc.Reconcile("100001", selection))

	rows, err := svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "BIO", rows[0].CourseCode)
	assert.Equal(t, approval.StatusPending, rows[0].Status)
	assert.Equal(t, "singh@school.org", rows[0].TeacherEmail) // lowered
	assert.Equal(t, now, rows[0].UpdatedAt)
}

func TestReconcileIsIdempotent(t *testing.T) {
	svc, _ := setup(t)
	mockNow(t, "2026-02-01 08:00:00")

	selection := []string{"Biology (BIO)", "Welding I (WELD1)"}
	assert.NoError(t, svc.Reconcile("100001", selection))

	before, err := svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Len(t, before, 2)

	// a later clock must not leak into untouched rows
	mockNow(t, "2026-03-15 12:00:00")
	assert.NoError(t, svc.Reconcile("100001", selection))

	after, err := svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReconcileDuplicateSelectionsCollapse(t *testing.T) {
	svc, _ := setup(t)
	mockNow(t, "2026-02-01 08:00:00")

	assert.NoError(t, svc.Reconcile("100001", []string{"Biology (BIO)", "Bio again (BIO)"}))

	rows, err := svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReconcilePrunesDeselectedRows(t *testing.T) {
	svc, _ := setup(t)
	mockNow(t, "2026-02-01 08:00:00")

	assert.NoError(t, svc.Reconcile("100001", []string{"Biology (BIO)", "Welding I (WELD1)"}))
	assert.NoError(t, svc.Reconcile("100001", []string{"Welding I (WELD1)"}))

	rows, err := svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "WELD1", rows[0].CourseCode)

	// empty selection empties the ledger
	assert.NoError(t, svc.Reconcile("100001", nil))
	rows, err = svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReconcilePreservesDecisionsAndResetsOnReadd(t *testing.T) {
	svc, _ := setup(t)
	mockNow(t, "2026-02-01 08:00:00")

	selection := []string{"Biology (BIO)"}
	assert.NoError(t, svc.Reconcile("100001", selection))

	_, err := svc.SetDecision("singh@school.org", approval.Decision{
		StudentID: "100001", CourseCode: "BIO", Status: approval.StatusApproved,
	})
	assert.NoError(t, err)

	// re-saving the same selection keeps the approval
	assert.NoError(t, svc.Reconcile("100001", selection))
	rows, err := svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, approval.StatusApproved, rows[0].Status)

	// dropping then re-adding the course starts a fresh pending request
	assert.NoError(t, svc.Reconcile("100001", nil))
	assert.NoError(t, svc.Reconcile("100001", selection))
	rows, err = svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, approval.StatusPending, rows[0].Status)
}

func TestReconcileLeavesOtherStudentsAlone(t *testing.T) {
	svc, _ := setup(t)
	mockNow(t, "2026-02-01 08:00:00")

	assert.NoError(t, svc.Reconcile("100001", []string{"Biology (BIO)"}))
	assert.NoError(t, svc.Reconcile("100002", []string{"Welding I (WELD1)"}))
	assert.NoError(t, svc.Reconcile("100001", nil))

	rows, err := svc.QueryByStudentID("100002")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSetDecision(t *testing.T) {
	svc, _ := setup(t)
	now := mockNow(t, "2026-02-02 10:30:00")
	assert.NoError(t, svc.Reconcile("100001", []string{"Biology (BIO)"}))

	appr, err := svc.SetDecision("Singh@School.org", approval.Decision{
		StudentID: "100001", CourseCode: "BIO", Status: approval.StatusRejected, Note: "see me first",
	})
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, appr.Status)
	assert.Equal(t, "singh@school.org", appr.TeacherEmail)
	assert.Equal(t, now, appr.UpdatedAt)
	assert.Equal(t, "see me first", appr.Note)

	// pending is not a teacher decision
	_, err = svc.SetDecision("singh@school.org", approval.Decision{
		StudentID: "100001", CourseCode: "BIO", Status: approval.StatusPending,
	})
	assert.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "status", vErr.Fields[0].Field)

	// a decision on a never-requested course is an upsert; the next
	// reconcile prunes the stray row
	_, err = svc.SetDecision("gomez@school.org", approval.Decision{
		StudentID: "100001", CourseCode: "WELD1", Status: approval.StatusApproved,
	})
	assert.NoError(t, err)
	assert.NoError(t, svc.Reconcile("100001", []string{"Biology (BIO)"}))

	rows, err := svc.QueryByStudentID("100001")
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "BIO", rows[0].CourseCode)
}

func TestReconcileNotifiesTeachers(t *testing.T) {
	svc, _ := setup(t)
	mockNow(t, "2026-02-01 08:00:00")
	emailsvc.ClearSentMessages()

	assert.NoError(t, svc.Reconcile("100001", []string{"Biology (BIO)", "Welding I (WELD1)"}))

	assert.Len(t, emailsvc.SentMessages, 2)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, "singh@school.org", msg.To[0].Address)
	assert.Contains(t, msg.Subject, "Biology (BIO)")
	assert.Contains(t, msg.TextContent, "Avery Johnson")

	// no new rows, no new mail
	emailsvc.ClearSentMessages()
	assert.NoError(t, svc.Reconcile("100001", []string{"Biology (BIO)", "Welding I (WELD1)"}))
	assert.Empty(t, emailsvc.SentMessages)
}
