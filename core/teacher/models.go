package teacher

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Teacher is a staff account keyed by email. Password holds a bcrypt hash;
// rows uploaded via the legacy teachers CSV may still carry a plaintext
// password, which CheckPassword tolerates until the account is rehashed.
type Teacher struct {
	Email    string `json:"teacher_email"`
	Name     string `json:"teacher_name"`
	Password string `json:"-"`
}

func (t *Teacher) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	t.Password = string(hash)
	return nil
}

func (t *Teacher) CheckPassword(pwd string) bool {
	if strings.HasPrefix(t.Password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(t.Password), []byte(pwd)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(t.Password), []byte(pwd)) == 1
}
