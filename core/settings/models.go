package settings

// Settings is the singleton counselor-tunable document.
//
// GradeSubmissionLock maps a grade level to whether its students may submit
// schedules; a missing grade defaults to open (true). SubjectColors maps a
// subject area to its display color.
type Settings struct {
	GradeSubmissionLock map[string]bool   `json:"grade_submission_lock"`
	SubjectColors       map[string]string `json:"subject_colors"`
}

// UpdateSettings carries a partial update: only the grades and subjects
// present are touched.
type UpdateSettings struct {
	GradeSubmissionLock map[string]bool   `json:"grade_submission_lock"`
	SubjectColors       map[string]string `json:"subject_colors"`
}

var gradeLevels = []string{"9", "10", "11", "12"}

// DefaultSubjectColors are the out-of-the-box subject area display colors.
var DefaultSubjectColors = map[string]string{
	"ELA":            "#2563eb",
	"Math":           "#7c3aed",
	"Science":        "#16a34a",
	"Social Studies": "#ea580c",
	"PE/Health":      "#0891b2",
	"CTE":            "#b91c1c",
	"Elective":       "#a21caf",
	"Other":          "#475569",
}

// Defaults returns a fresh settings document with every grade open.
func Defaults() Settings {
	lock := make(map[string]bool, len(gradeLevels))
	for _, g := range gradeLevels {
		lock[g] = true
	}
	colors := make(map[string]string, len(DefaultSubjectColors))
	for k, v := range DefaultSubjectColors {
		colors[k] = v
	}
	return Settings{GradeSubmissionLock: lock, SubjectColors: colors}
}

// normalize backfills maps lost to hand-edited or truncated settings files.
func (s *Settings) normalize() bool {
	var changed bool
	if s.GradeSubmissionLock == nil {
		s.GradeSubmissionLock = Defaults().GradeSubmissionLock
		changed = true
	}
	if s.SubjectColors == nil {
		s.SubjectColors = Defaults().SubjectColors
		changed = true
	}
	return changed
}
