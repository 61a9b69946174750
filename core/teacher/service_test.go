package teacher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arcacademy/courseflow/core/teacher"
	inmemdb "github.com/arcacademy/courseflow/storage/inmem"
)

func setup(t *testing.T) *teacher.Service {
	t.Helper()

	db, err := inmemdb.Open()
	assert.NoError(t, err)
	return teacher.NewService(inmemdb.NewTeacherRepository(db))
}

func TestAuthenticateHashed(t *testing.T) {
	svc := setup(t)

	_, err := svc.AddOrUpdate("Singh@School.org", "A. Singh", "s3cret")
	assert.NoError(t, err)

	// email lookup is case-insensitive
	tch, err := svc.Authenticate("SINGH@school.org", "s3cret")
	assert.NoError(t, err)
	assert.Equal(t, "singh@school.org", tch.Email)

	_, err = svc.Authenticate("singh@school.org", "wrong")
	assert.Equal(t, teacher.ErrBadCredentials, err)

	// unknown emails are indistinguishable from bad passwords
	_, err = svc.Authenticate("nobody@school.org", "s3cret")
	assert.Equal(t, teacher.ErrBadCredentials, err)
}

func TestAuthenticateLegacyPlaintext(t *testing.T) {
	svc := setup(t)

	// a CSV upload can carry a plaintext password
	assert.NoError(t, svc.Replace([]teacher.Teacher{
		{Email: "gomez@school.org", Name: "T. Gomez", Password: "changeme"},
	}))

	tch, err := svc.Authenticate("gomez@school.org", "changeme")
	assert.NoError(t, err)
	assert.Equal(t, "T. Gomez", tch.Name)

	_, err = svc.Authenticate("gomez@school.org", "changeme2")
	assert.Equal(t, teacher.ErrBadCredentials, err)

	// rehashing via AddOrUpdate upgrades the row
	_, err = svc.AddOrUpdate("gomez@school.org", "", "changeme2")
	assert.NoError(t, err)

	tch, err = svc.Authenticate("gomez@school.org", "changeme2")
	assert.NoError(t, err)
	assert.Equal(t, "T. Gomez", tch.Name) // empty name kept the stored one
	assert.NotEqual(t, "changeme2", tch.Password)
}
