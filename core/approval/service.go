package approval

import (
	"net/mail"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/catalog"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound      = errors.New("approval not found")
	ErrInvalidStatus = errors.New("status must be either 'approved' or 'rejected'")
)

type (
	Repository interface {
		QueryAllApprovals() ([]Approval, error)
		QueryApprovalsByStudentID(studentID string) ([]Approval, error)
		GetApproval(studentID, courseCode string) (Approval, error)
		UpsertApproval(appr Approval) error
		// ReplaceStudentApprovals swaps every row belonging to studentID
		// for the given rows, leaving other students' rows untouched.
		ReplaceStudentApprovals(studentID string, rows []Approval) error
		DeleteApprovalsByStudentID(studentID string) error
		DeleteApprovalsByCourseCode(courseCode string) error
		ReplaceApprovals(rows []Approval) error
	}

	// StudentNameFunc resolves a student's display name and grade for
	// notifications; wired at startup to avoid a dependency on the roster.
	StudentNameFunc func(studentID string) (name, grade string, ok bool)

	Service struct {
		repo          Repository
		catalogRepo   catalog.Repository
		mailSvc       core.EmailService
		conf          *core.Config
		lookupStudent StudentNameFunc
	}
)

func NewService(repo Repository, catalogRepo catalog.Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:        repo,
		catalogRepo: catalogRepo,
		mailSvc:     mailSvc,
		conf:        conf,
	}
}

// SetStudentLookup installs the roster lookup used to address notification
// emails. Optional; without it notifications identify students by ID only.
func (svc *Service) SetStudentLookup(fn StudentNameFunc) {
	svc.lookupStudent = fn
}

// Reconcile brings the student's approval ledger in line with their current
// course selection:
//
//  1. selected display strings resolve to a set of codes (duplicates collapse),
//  2. rows for codes no longer in the set are pruned,
//  3. a fresh pending row is inserted for each selected, approval-required,
//     known course that has no row yet,
//  4. rows for still-selected courses are left untouched, preserving any
//     prior teacher decision.
//
// Calling it twice with the same selection is a no-op the second time: when
// nothing is pruned or inserted, no write happens at all.
func (svc *Service) Reconcile(studentID string, selectedDisplays []string) error {
	selected := make(map[string]bool, len(selectedDisplays))
	for _, display := range selectedDisplays {
		if code := catalog.ExtractCourseCode(display); code != "" {
			selected[code] = true
		}
	}

	rows, err := svc.repo.QueryApprovalsByStudentID(studentID)
	if err != nil {
		return errors.Wrap(err, "querying student approvals")
	}

	kept := make([]Approval, 0, len(rows))
	existing := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !selected[row.CourseCode] {
			continue // stale: deselected, or a code that no longer matches
		}
		kept = append(kept, row)
		existing[row.CourseCode] = true
	}
	pruned := len(kept) != len(rows)

	codes := make([]string, 0, len(selected))
	for code := range selected {
		codes = append(codes, code)
	}
	sort.Strings(codes) // stable row order across runs

	now := NowFunc()
	var created []Approval
	for _, code := range codes {
		if existing[code] {
			continue
		}
		crs, err := svc.catalogRepo.GetCourseByCode(code)
		if err == catalog.ErrNotFound {
			continue // dangling code: display text resolves to no real course
		} else if err != nil {
			return errors.Wrap(err, "looking up course")
		}
		if !crs.RequiresApproval {
			continue
		}
		created = append(created, Approval{
			StudentID:    studentID,
			CourseCode:   code,
			Status:       StatusPending,
			TeacherEmail: core.CleanString(crs.TeacherEmail, true /* lower */),
			UpdatedAt:    now,
			Note:         "",
		})
	}

	if !pruned && len(created) == 0 {
		return nil
	}

	kept = append(kept, created...)
	if err := svc.repo.ReplaceStudentApprovals(studentID, kept); err != nil {
		return errors.Wrap(err, "replacing student approvals")
	}

	svc.notifyRequested(studentID, created)
	return nil
}

// SetDecision records a teacher's ruling as an upsert keyed by
// (student, course code), stamping the acting teacher's email and the
// current time and overwriting any prior decision. Only approved and
// rejected are accepted; the sole path back to pending is deselecting and
// re-adding the course. A row for a course the student never requested is
// pruned by the next reconciliation.
func (svc *Service) SetDecision(teacherEmail string, d Decision) (Approval, error) {
	if d.Status != StatusApproved && d.Status != StatusRejected {
		return Approval{}, core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}
	appr := Approval{
		StudentID:    d.StudentID,
		CourseCode:   d.CourseCode,
		Status:       d.Status,
		TeacherEmail: core.CleanString(teacherEmail, true /* lower */),
		UpdatedAt:    NowFunc(),
		Note:         d.Note,
	}
	if err := svc.repo.UpsertApproval(appr); err != nil {
		return Approval{}, errors.Wrap(err, "upserting approval")
	}
	return appr, nil
}

func (svc *Service) QueryAll() ([]Approval, error) {
	return svc.repo.QueryAllApprovals()
}

func (svc *Service) QueryByStudentID(studentID string) ([]Approval, error) {
	return svc.repo.QueryApprovalsByStudentID(studentID)
}

// QueryPending lists every request still awaiting a decision.
func (svc *Service) QueryPending() ([]Approval, error) {
	rows, err := svc.repo.QueryAllApprovals()
	if err != nil {
		return nil, err
	}
	pending := make([]Approval, 0, len(rows))
	for _, row := range rows {
		if row.Status == StatusPending {
			pending = append(pending, row)
		}
	}
	return pending, nil
}

// StatusMap indexes a student's rows by course code.
func (svc *Service) StatusMap(studentID string) (map[string]Approval, error) {
	rows, err := svc.repo.QueryApprovalsByStudentID(studentID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]Approval, len(rows))
	for _, row := range rows {
		m[row.CourseCode] = row
	}
	return m, nil
}

// DeleteForStudent cascades a student deletion or schedule reset.
func (svc *Service) DeleteForStudent(studentID string) error {
	return svc.repo.DeleteApprovalsByStudentID(studentID)
}

// DeleteForCourse cascades a course deletion.
func (svc *Service) DeleteForCourse(courseCode string) error {
	return svc.repo.DeleteApprovalsByCourseCode(courseCode)
}

func (svc *Service) notifyRequested(studentID string, created []Approval) {
	if svc.mailSvc == nil || len(created) == 0 {
		return
	}

	stuName, stuGrade := studentID, ""
	if svc.lookupStudent != nil {
		if name, grade, ok := svc.lookupStudent(studentID); ok {
			stuName, stuGrade = name, grade
		}
	}

	messages := make([]*core.EmailMessage, 0, len(created))
	for _, row := range created {
		if row.TeacherEmail == "" {
			continue
		}
		crs, err := svc.catalogRepo.GetCourseByCode(row.CourseCode)
		if err != nil {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: crs.TeacherName, Address: row.TeacherEmail}},
			Subject:      "Approval requested: " + crs.Name,
			TemplateName: "approval_requested",
			TemplateData: map[string]interface{}{
				"AppName":     svc.conf.AppName,
				"TeacherName": crs.TeacherName,
				"StudentID":   studentID,
				"StudentName": stuName,
				"GradeLevel":  stuGrade,
				"CourseName":  crs.Name,
				"CourseCode":  crs.Code,
			},
		})
	}
	svc.mailSvc.SendMessages(messages...)
}
