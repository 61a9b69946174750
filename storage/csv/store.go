// Package csvstore persists every collection as a flat CSV file under the
// configured data dir (settings as JSON under the state dir), mirroring the
// deployment format counselors already exchange with their SIS exports.
//
// Writes rewrite the whole collection: each repository method holds its
// collection's mutex across the read-modify-write cycle, and files are
// replaced atomically (write to temp, then rename) so a crash mid-write
// leaves the previous version intact. There is no cross-collection
// transaction; that is an accepted limitation of the single-school,
// low-concurrency deployment.
package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
)

type Store struct {
	conf *core.Config

	studentsPath  string
	coursesPath   string
	schedulesPath string
	teachersPath  string
	approvalsPath string
	settingsPath  string

	studentsMu  sync.Mutex
	coursesMu   sync.Mutex
	schedulesMu sync.Mutex
	teachersMu  sync.Mutex
	approvalsMu sync.Mutex
	settingsMu  sync.Mutex
}

// Open prepares the data and state dirs, seeding starter files for any
// collection that does not exist yet.
func Open(conf *core.Config) (*Store, error) {
	s := &Store{
		conf:          conf,
		studentsPath:  filepath.Join(conf.Storage.DataDir, "students.csv"),
		coursesPath:   filepath.Join(conf.Storage.DataDir, "courses.csv"),
		schedulesPath: filepath.Join(conf.Storage.DataDir, "schedules.csv"),
		teachersPath:  filepath.Join(conf.Storage.DataDir, "teachers.csv"),
		approvalsPath: filepath.Join(conf.Storage.DataDir, "approvals.csv"),
		settingsPath:  filepath.Join(conf.Storage.StateDir, "settings.json"),
	}
	if err := os.MkdirAll(conf.Storage.DataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data dir")
	}
	if err := os.MkdirAll(conf.Storage.StateDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating state dir")
	}
	if err := s.ensureFiles(); err != nil {
		return nil, err
	}
	return s, nil
}

// readRows returns every record of a CSV file keyed by its header row.
func readRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate hand-edited rows

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeRows atomically replaces a CSV file with header + records.
func writeRows(path string, header []string, records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrapf(err, "creating temp for %s", path)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s header", path)
	}
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s records", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "flushing %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing temp for %s", path)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replacing %s", path)
}

// replaceFile atomically replaces a file with raw content (settings JSON,
// counselor CSV uploads).
func replaceFile(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrapf(err, "creating temp for %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing temp for %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing temp for %s", path)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replacing %s", path)
}

func exists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return true, nil
	} else if os.IsNotExist(err) {
		return false, nil
	} else {
		return false, errors.Wrapf(err, "stat %s", path)
	}
}

// schedulesHeader builds the fixed-width slot header:
// student_id,student_name,grade_level,period_1..N,elective_1..M,special_instructions,reviewed
func (s *Store) schedulesHeader() []string {
	header := []string{"student_id", "student_name", "grade_level"}
	for i := 1; i <= s.conf.MaxAcademicCourses; i++ {
		header = append(header, fmt.Sprintf("period_%d", i))
	}
	for j := 1; j <= s.conf.MaxElectiveChoices; j++ {
		header = append(header, fmt.Sprintf("elective_%d", j))
	}
	return append(header, "special_instructions", "reviewed")
}
