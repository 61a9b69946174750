package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/arcacademy/courseflow/apps/api/echo"
	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/approval"
	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/schedule"
	"github.com/arcacademy/courseflow/core/settings"
	"github.com/arcacademy/courseflow/core/student"
	"github.com/arcacademy/courseflow/core/teacher"
	emailsvc "github.com/arcacademy/courseflow/services/email"
	logsvc "github.com/arcacademy/courseflow/services/logger"
	inmemdb "github.com/arcacademy/courseflow/storage/inmem"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission_denied"}
	errAuthFailed   = httpErr{Error: "authentication_failed"}
	errNotFound     = httpErr{Error: "not_found"}
)

// env regroups the server and its services so tests can seed and inspect
// state directly.
type env struct {
	conf *core.Config
	app  Server

	catalogSvc  *catalog.Service
	studentSvc  *student.Service
	scheduleSvc *schedule.Service
	approvalSvc *approval.Service
	settingsSvc *settings.Service
	teacherSvc  *teacher.Service
}

func setup(t *testing.T) *env {
	t.Helper()

	conf := &core.Config{
		TestMode:           true,
		AppName:            "Courseflow",
		SchoolName:         "Test Charter Academy",
		SecretKey:          "t35t-53cr3t-k3y",
		CounselorPassword:  "c0un53l0r",
		MaxAcademicCourses: 7,
		MaxElectiveChoices: 5,
		Server:             core.ServerConfig{JWTExpirationDelta: 10 * time.Minute},
	}

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}

	mailSvc := emailsvc.NewConsoleService(conf)
	e := &env{
		conf:        conf,
		catalogSvc:  catalog.NewService(inmemdb.NewCatalogRepository(db)),
		studentSvc:  student.NewService(inmemdb.NewStudentRepository(db)),
		settingsSvc: settings.NewService(inmemdb.NewSettingsRepository(db)),
		teacherSvc:  teacher.NewService(inmemdb.NewTeacherRepository(db)),
	}
	e.approvalSvc = approval.NewService(inmemdb.NewApprovalRepository(db), inmemdb.NewCatalogRepository(db), mailSvc, conf)
	e.scheduleSvc = schedule.NewService(inmemdb.NewScheduleRepository(db), inmemdb.NewCatalogRepository(db), inmemdb.NewStudentRepository(db), e.approvalSvc, conf)
	e.approvalSvc.SetStudentLookup(func(studentID string) (string, string, bool) {
		stu, err := e.studentSvc.GetByID(studentID)
		if err != nil {
			return "", "", false
		}
		return stu.Name, stu.GradeLevel, true
	})

	validate := validator.New()
	lang := en.New()
	uni := ut.New(lang, lang)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	e.app = NewServer(
		"",  /* addr */
		nil, /* shutdown */
		&Deps{
			Conf:        conf,
			Logger:      logger,
			Validate:    validate,
			Translator:  translator,
			CatalogSvc:  e.catalogSvc,
			StudentSvc:  e.studentSvc,
			ScheduleSvc: e.scheduleSvc,
			ApprovalSvc: e.approvalSvc,
			SettingsSvc: e.settingsSvc,
			TeacherSvc:  e.teacherSvc,
		},
	)

	e.seed(t)
	return e
}

func (e *env) seed(t *testing.T) {
	t.Helper()

	if err := e.studentSvc.Replace([]student.Student{
		{ID: "100001", Name: "Avery Johnson", GradeLevel: "9"},
		{ID: "100002", Name: "Jordan Lee", GradeLevel: "10"},
	}); err != nil {
		t.Fatalf("seeding students: %v", err)
	}
	if err := e.catalogSvc.Replace([]catalog.Course{
		{Code: "ENG9", Name: "English 9 (ENG9)", SubjectArea: "ELA", GradeMin: "9", GradeMax: "9"},
		{Code: "ALG1", Name: "Algebra I (ALG1)", SubjectArea: "Math", GradeMin: "9", GradeMax: "10"},
		{Code: "BIO", Name: "Biology (BIO)", SubjectArea: "Science", GradeMin: "9", GradeMax: "10", RequiresApproval: true, TeacherName: "A. Singh", TeacherEmail: "singh@school.org"},
		{Code: "PE9", Name: "Physical Education (PE9)", SubjectArea: "PE/Health", GradeMin: "9", GradeMax: "9"},
		{Code: "WELD1", Name: "Welding I (WELD1)", SubjectArea: "CTE", GradeMin: "10", GradeMax: "12", RequiresApproval: true, TeacherName: "R. Gomez", TeacherEmail: "gomez@school.org"},
	}); err != nil {
		t.Fatalf("seeding courses: %v", err)
	}
	if _, err := e.teacherSvc.AddOrUpdate("singh@school.org", "A. Singh", "changeme"); err != nil {
		t.Fatalf("seeding teacher: %v", err)
	}
}

func (e *env) studentToken(t *testing.T, stu student.Student) string {
	return e.token(t, GetStudentClaims(e.conf, stu))
}

func (e *env) teacherToken(t *testing.T, tch teacher.Teacher) string {
	return e.token(t, GetTeacherClaims(e.conf, tch))
}

func (e *env) counselorToken(t *testing.T) string {
	return e.token(t, GetCounselorClaims(e.conf))
}

func (e *env) token(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := GenerateToken(e.conf, claims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func decodeObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("decodeObj(): %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
