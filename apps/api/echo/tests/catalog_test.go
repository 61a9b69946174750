package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcacademy/courseflow/core/catalog"
)

func Test_catalogApi_query(t *testing.T) {
	e := setup(t)

	tests := []struct {
		name      string
		path      string
		wantCodes []string
	}{
		{"no filter lists everything", "/v1/courses", []string{"ENG9", "ALG1", "BIO", "PE9", "WELD1"}},
		{"grade range", "/v1/courses?grade=12", []string{"WELD1"}},
		{"subject substring", "/v1/courses?subject=science", []string{"BIO"}},
		{"name matches code too", "/v1/courses?name=alg", []string{"ALG1"}},
		{"filters AND together", "/v1/courses?grade=9&subject=science", []string{"BIO"}},
		{"no match", "/v1/courses?name=latin", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			e.app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)

			var courses []catalog.Course
			decodeObj(t, rec, &courses)
			codes := make([]string, 0, len(courses))
			for _, crs := range courses {
				codes = append(codes, crs.Code)
			}
			assert.ElementsMatch(t, tt.wantCodes, codes)
		})
	}
}

func Test_catalogApi_retrieve(t *testing.T) {
	e := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/courses/BIO")
	e.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var crs catalog.Course
	decodeObj(t, rec, &crs)
	assert.Equal(t, "Biology (BIO)", crs.Name)
	assert.True(t, crs.RequiresApproval)

	req, rec = newRequest(http.MethodGet, "/v1/courses/NOPE")
	e.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, errNotFound)}, rec)
}
