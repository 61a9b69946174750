package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/catalog"
	inmemdb "github.com/arcacademy/courseflow/storage/inmem"
)

func setup(t *testing.T) *catalog.Service {
	t.Helper()

	db, err := inmemdb.Open()
	assert.NoError(t, err)

	svc := catalog.NewService(inmemdb.NewCatalogRepository(db))
	assert.NoError(t, svc.Replace([]catalog.Course{
		{Code: "ENG9", Name: "English 9 (ENG9)", SubjectArea: "ELA", GradeMin: "9", GradeMax: "9"},
		{Code: "BIO", Name: "Biology (BIO)", SubjectArea: "Science", GradeMin: "9", GradeMax: "10", RequiresApproval: true},
		{Code: "WELD1", Name: "Welding I (WELD1)", SubjectArea: "CTE", GradeMin: "10", GradeMax: "12", RequiresApproval: true},
	}))
	return svc
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc := setup(t)

	_, err := svc.Create(catalog.NewCourse{Code: "BIO", Name: "Biology II"})
	assert.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "course_code", vErr.Fields[0].Field)

	crs, err := svc.Create(catalog.NewCourse{Code: "CHEM", Name: "Chemistry (CHEM)", SubjectArea: "Science"})
	assert.NoError(t, err)
	assert.Equal(t, "CHEM", crs.Code)
}

func TestUpdateKeepsEmptyFields(t *testing.T) {
	svc := setup(t)

	off := false
	crs, err := svc.Update("BIO", catalog.UpdateCourse{Name: "Biology Honors (BIO)", RequiresApproval: &off})
	assert.NoError(t, err)
	assert.Equal(t, "Biology Honors (BIO)", crs.Name)
	assert.Equal(t, "Science", crs.SubjectArea) // empty field kept
	assert.False(t, crs.RequiresApproval)

	// nil pointer keeps the stored flag
	crs, err = svc.Update("WELD1", catalog.UpdateCourse{Name: "Welding I and Safety (WELD1)"})
	assert.NoError(t, err)
	assert.True(t, crs.RequiresApproval)

	_, err = svc.Update("NOPE", catalog.UpdateCourse{Name: "x"})
	assert.Equal(t, catalog.ErrNotFound, err)
}

func TestFilter(t *testing.T) {
	svc := setup(t)

	// subject filter is case-insensitive
	courses, err := svc.Filter(catalog.QueryFilter{Subject: "science"})
	assert.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, "BIO", courses[0].Code)

	// grade must fall inside [grade_min, grade_max]
	courses, err = svc.Filter(catalog.QueryFilter{Grade: "11"})
	assert.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, "WELD1", courses[0].Code)

	courses, err = svc.Filter(catalog.QueryFilter{Name: "weld"})
	assert.NoError(t, err)
	assert.Len(t, courses, 1)

	// no filter returns everything
	courses, err = svc.Filter(catalog.QueryFilter{})
	assert.NoError(t, err)
	assert.Len(t, courses, 3)
}
