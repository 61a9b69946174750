package csvstore

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core/settings"
)

var (
	studentsHeader  = []string{"student_id", "student_name", "grade_level"}
	coursesHeader   = []string{"course_code", "course_name", "subject_area", "level", "grade_min", "grade_max", "requires_approval", "teacher_name", "teacher_email", "room", "description"}
	teachersHeader  = []string{"email", "name", "password"}
	approvalsHeader = []string{"student_id", "course_code", "status", "teacher_email", "updated_at", "note"}
)

// ensureFiles seeds a starter data set on first run so a fresh install is
// immediately usable; existing files are never touched.
func (s *Store) ensureFiles() error {
	if ok, err := exists(s.studentsPath); err != nil {
		return err
	} else if !ok {
		records := [][]string{
			{"100001", "Avery Johnson", "9"},
			{"100002", "Jordan Lee", "10"},
		}
		if err := writeRows(s.studentsPath, studentsHeader, records); err != nil {
			return err
		}
	}

	if ok, err := exists(s.coursesPath); err != nil {
		return err
	} else if !ok {
		records := [][]string{
			{"ENG9", "English 9 (ENG9)", "ELA", "", "9", "9", "FALSE", "R. Patel", "patel@school.org", "204", "Freshman English."},
			{"ALG1", "Algebra I (ALG1)", "Math", "", "9", "10", "FALSE", "M. Chen", "chen@school.org", "117", "Introductory algebra."},
			{"BIO", "Biology (BIO)", "Science", "", "9", "10", "TRUE", "A. Singh", "singh@school.org", "301", "Lab science with placement approval."},
			{"PE9", "Physical Education (PE9)", "PE/Health", "", "9", "12", "FALSE", "D. Brooks", "brooks@school.org", "GYM", "General PE."},
			{"WELD1", "Welding I (WELD1)", "CTE", "", "10", "12", "TRUE", "T. Gomez", "gomez@school.org", "SHOP", "Shop safety certification required."},
		}
		if err := writeRows(s.coursesPath, coursesHeader, records); err != nil {
			return err
		}
	}

	if ok, err := exists(s.teachersPath); err != nil {
		return err
	} else if !ok {
		records := [][]string{
			{"singh@school.org", "A. Singh", "changeme"},
			{"gomez@school.org", "T. Gomez", "changeme"},
		}
		if err := writeRows(s.teachersPath, teachersHeader, records); err != nil {
			return err
		}
	}

	if ok, err := exists(s.schedulesPath); err != nil {
		return err
	} else if !ok {
		if err := writeRows(s.schedulesPath, s.schedulesHeader(), nil); err != nil {
			return err
		}
	}

	if ok, err := exists(s.approvalsPath); err != nil {
		return err
	} else if !ok {
		if err := writeRows(s.approvalsPath, approvalsHeader, nil); err != nil {
			return err
		}
	}

	if ok, err := exists(s.settingsPath); err != nil {
		return err
	} else if !ok {
		doc, err := json.MarshalIndent(settings.Defaults(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding default settings")
		}
		if err := replaceFile(s.settingsPath, doc); err != nil {
			return err
		}
	}

	return nil
}
