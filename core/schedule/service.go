package schedule

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/student"
)

var (
	// errors
	ErrNotFound          = errors.New("schedule not found")
	ErrSelectionTooLarge = errors.New("too many courses selected")
)

type (
	Repository interface {
		QueryAllSchedules() ([]Schedule, error)
		GetScheduleByStudentID(studentID string) (Schedule, error)
		UpsertSchedule(sched Schedule) error
		DeleteScheduleByStudentID(studentID string) error
		ReplaceSchedules(schedules []Schedule) error
	}

	Service struct {
		repo        Repository
		catalogRepo catalog.Repository
		studentRepo student.Repository
		approvalSvc *approval.Service
		conf        *core.Config
	}
)

func NewService(
	repo Repository,
	catalogRepo catalog.Repository,
	studentRepo student.Repository,
	approvalSvc *approval.Service,
	conf *core.Config,
) *Service {
	return &Service{
		repo:        repo,
		catalogRepo: catalogRepo,
		studentRepo: studentRepo,
		approvalSvc: approvalSvc,
		conf:        conf,
	}
}

func (svc *Service) QueryAll() ([]Schedule, error) {
	return svc.repo.QueryAllSchedules()
}

// Upsert saves a student's schedule, truncating the selections to the
// configured slot limits, and reconciles the approval ledger against the
// saved selection. An existing row keeps its reviewed flag.
func (svc *Service) Upsert(up UpsertSchedule) (Schedule, error) {
	academic := truncate(up.AcademicCourses, svc.conf.MaxAcademicCourses)
	elective := truncate(up.ElectiveCourses, svc.conf.MaxElectiveChoices)

	sched := Schedule{
		StudentID:           up.StudentID,
		StudentName:         up.StudentName,
		GradeLevel:          up.GradeLevel,
		AcademicCourses:     academic,
		ElectiveCourses:     elective,
		SpecialInstructions: core.CleanString(up.SpecialInstructions),
	}
	if prev, err := svc.repo.GetScheduleByStudentID(up.StudentID); err == nil {
		sched.Reviewed = prev.Reviewed
	} else if err != ErrNotFound {
		return Schedule{}, err
	}

	if err := svc.repo.UpsertSchedule(sched); err != nil {
		return Schedule{}, errors.Wrap(err, "upserting schedule")
	}
	if err := svc.approvalSvc.Reconcile(sched.StudentID, sched.SelectedDisplays()); err != nil {
		return Schedule{}, errors.Wrap(err, "reconciling approvals")
	}
	return sched, nil
}

// Reset deletes the schedule row and cascades to the student's approval
// rows, so a fresh start never inherits stale decisions. The approval rows
// are pruned even when no schedule row exists; a missing row still reports
// ErrNotFound after the prune.
func (svc *Service) Reset(studentID string) error {
	err := svc.repo.DeleteScheduleByStudentID(studentID)
	if err != nil && err != ErrNotFound {
		return errors.Wrap(err, "deleting schedule")
	}
	if derr := svc.approvalSvc.DeleteForStudent(studentID); derr != nil {
		return errors.Wrap(derr, "deleting approvals")
	}
	return err
}

// GetForStudent returns the stored schedule or, when the student has not
// scheduled yet, an empty one carrying the roster identity. Either way the
// approval ledger is reconciled against the returned selection, self-healing
// rows lost to out-of-band CSV edits.
func (svc *Service) GetForStudent(stu student.Student) (Schedule, error) {
	sched, err := svc.repo.GetScheduleByStudentID(stu.ID)
	if err == ErrNotFound {
		sched = Schedule{
			StudentID:       stu.ID,
			StudentName:     stu.Name,
			GradeLevel:      stu.GradeLevel,
			AcademicCourses: []string{},
			ElectiveCourses: []string{},
		}
	} else if err != nil {
		return Schedule{}, err
	}

	if err := svc.approvalSvc.Reconcile(stu.ID, sched.SelectedDisplays()); err != nil {
		return Schedule{}, errors.Wrap(err, "reconciling approvals")
	}
	return sched, nil
}

func (svc *Service) MarkReviewed(studentID string, reviewed bool) (Schedule, error) {
	sched, err := svc.repo.GetScheduleByStudentID(studentID)
	if err != nil {
		return Schedule{}, err
	}
	sched.Reviewed = reviewed
	if err := svc.repo.UpsertSchedule(sched); err != nil {
		return Schedule{}, errors.Wrap(err, "upserting schedule")
	}
	return sched, nil
}

// Itemize annotates each selected entry with its resolved course and
// approval status. Unknown courses degrade to subject "Other" and need no
// approval. With an empty studentID (anonymous preview) every
// approval-required item reads pending without consulting per-student state.
func (svc *Service) Itemize(studentID string, sched Schedule) (academic, elective []Item, err error) {
	codeMap, err := svc.codeMap()
	if err != nil {
		return nil, nil, err
	}
	statusMap := map[string]approval.Approval{}
	if studentID != "" {
		if statusMap, err = svc.approvalSvc.StatusMap(studentID); err != nil {
			return nil, nil, err
		}
	}

	build := func(displays []string) []Item {
		items := make([]Item, 0, len(displays))
		for _, display := range displays {
			items = append(items, buildItem(display, studentID, codeMap, statusMap))
		}
		return items
	}
	return build(sched.AcademicCourses), build(sched.ElectiveCourses), nil
}

func buildItem(display, studentID string, codeMap map[string]catalog.Course, statusMap map[string]approval.Approval) Item {
	code := catalog.ExtractCourseCode(display)
	crs, known := codeMap[code]

	subject := crs.SubjectArea
	if subject == "" {
		subject = "Other"
	}

	status := approval.StatusApproved
	if known && crs.RequiresApproval {
		status = approval.StatusPending
		if studentID != "" {
			if row, ok := statusMap[code]; ok && row.Status != "" {
				status = strings.ToLower(row.Status)
			}
		}
	}

	return Item{
		Display:          display,
		CourseCode:       code,
		SubjectArea:      subject,
		RequiresApproval: known && crs.RequiresApproval,
		ApprovalStatus:   status,
		TeacherEmail:     crs.TeacherEmail,
	}
}

// CountPendingRejected buckets the current statuses of the student's
// approval-required selections. Unknown courses, courses not requiring
// approval and approved requests do not count; a required course with no
// row yet counts as pending.
func (svc *Service) CountPendingRejected(studentID string, sched Schedule) (pending, rejected int, err error) {
	codeMap, err := svc.codeMap()
	if err != nil {
		return 0, 0, err
	}
	statusMap, err := svc.approvalSvc.StatusMap(studentID)
	if err != nil {
		return 0, 0, err
	}

	seen := make(map[string]bool)
	for _, display := range sched.SelectedDisplays() {
		code := catalog.ExtractCourseCode(display)
		if seen[code] {
			continue
		}
		seen[code] = true
		crs, known := codeMap[code]
		if !known || !crs.RequiresApproval {
			continue
		}
		status := approval.StatusPending
		if row, ok := statusMap[code]; ok && row.Status != "" {
			status = strings.ToLower(row.Status)
		}
		switch status {
		case approval.StatusPending:
			pending++
		case approval.StatusRejected:
			rejected++
		}
	}
	return pending, rejected, nil
}

// TeacherRoster lists, per course owned by the teacher, every student
// currently requesting it with their approval status. The ledger is
// reconciled for each matching student on the way, so freshly uploaded
// schedules surface as pending requests immediately.
func (svc *Service) TeacherRoster(teacherEmail string) ([]RosterCourse, error) {
	teacherEmail = core.CleanString(teacherEmail, true /* lower */)

	codeMap, err := svc.codeMap()
	if err != nil {
		return nil, err
	}
	myCourses := make(map[string]catalog.Course)
	for code, crs := range codeMap {
		if core.CleanString(crs.TeacherEmail, true) == teacherEmail {
			myCourses[code] = crs
		}
	}

	schedules, err := svc.repo.QueryAllSchedules()
	if err != nil {
		return nil, err
	}

	byCourse := make(map[string][]RosterStudent, len(myCourses))
	for _, sched := range schedules {
		displays := sched.SelectedDisplays()
		reconciled := false

		for _, display := range displays {
			code := catalog.ExtractCourseCode(display)
			crs, mine := myCourses[code]
			if !mine {
				continue
			}

			if crs.RequiresApproval && !reconciled {
				if err := svc.approvalSvc.Reconcile(sched.StudentID, displays); err != nil {
					return nil, errors.Wrap(err, "reconciling approvals")
				}
				reconciled = true
			}

			status := approval.StatusApproved
			if crs.RequiresApproval {
				status = approval.StatusPending
				if row, err := svc.approvalSvc.StatusMap(sched.StudentID); err == nil {
					if appr, ok := row[code]; ok && appr.Status != "" {
						status = strings.ToLower(appr.Status)
					}
				}
			}

			byCourse[code] = append(byCourse[code], RosterStudent{
				StudentID:      sched.StudentID,
				StudentName:    sched.StudentName,
				GradeLevel:     sched.GradeLevel,
				ApprovalStatus: status,
			})
		}
	}

	roster := make([]RosterCourse, 0, len(myCourses))
	for code, crs := range myCourses {
		students := byCourse[code]
		sort.Slice(students, func(i, j int) bool {
			return strings.ToLower(students[i].StudentName) < strings.ToLower(students[j].StudentName)
		})
		if students == nil {
			students = []RosterStudent{}
		}
		roster = append(roster, RosterCourse{Course: crs, Students: students})
	}
	sort.Slice(roster, func(i, j int) bool {
		return strings.ToLower(roster[i].Course.Name) < strings.ToLower(roster[j].Course.Name)
	})
	return roster, nil
}

// StudentOverview builds the counselor's filtered student list with
// per-student scheduling state and approval counts.
func (svc *Service) StudentOverview(filter OverviewFilter) ([]OverviewRow, error) {
	filter.Clean()

	students, err := svc.studentRepo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	schedules, err := svc.repo.QueryAllSchedules()
	if err != nil {
		return nil, err
	}
	schedMap := make(map[string]Schedule, len(schedules))
	for _, sched := range schedules {
		schedMap[sched.StudentID] = sched
	}

	out := make([]OverviewRow, 0, len(students))
	for _, stu := range students {
		if filter.Name != "" && !strings.Contains(strings.ToLower(stu.Name), filter.Name) {
			continue
		}
		if filter.Grade != "" && stu.GradeLevel != filter.Grade {
			continue
		}

		row := OverviewRow{
			StudentID:       stu.ID,
			StudentName:     stu.Name,
			GradeLevel:      stu.GradeLevel,
			AcademicCourses: []string{},
			ElectiveCourses: []string{},
		}
		sched, scheduled := schedMap[stu.ID]
		if scheduled {
			row.Scheduled = true
			row.Reviewed = sched.Reviewed
			row.AcademicCourses = sched.AcademicCourses
			row.ElectiveCourses = sched.ElectiveCourses
			row.SpecialInstructions = sched.SpecialInstructions
			if len(sched.ElectiveCourses) > 0 {
				row.TopElective = sched.ElectiveCourses[0]
			}
			if row.PendingApprovals, row.RejectedApprovals, err = svc.CountPendingRejected(stu.ID, sched); err != nil {
				return nil, err
			}
		}

		if filter.Course != "" {
			hay := strings.ToLower(strings.Join(append(append([]string{}, row.AcademicCourses...), row.ElectiveCourses...), " "))
			if !strings.Contains(hay, filter.Course) {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (svc *Service) codeMap() (map[string]catalog.Course, error) {
	courses, err := svc.catalogRepo.QueryAllCourses()
	if err != nil {
		return nil, err
	}
	m := make(map[string]catalog.Course, len(courses))
	for _, crs := range courses {
		if crs.Code != "" {
			m[crs.Code] = crs
		}
	}
	return m, nil
}

func truncate(list []string, max int) []string {
	out := make([]string, 0, max)
	for _, v := range list {
		if len(out) == max {
			break
		}
		out = append(out, v)
	}
	return out
}
