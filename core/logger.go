package core

// Actor identifies the request principal for error reporting: a student ID,
// a teacher email or the counselor.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Logger is any leveled logger. An Actor may be passed among args to tie a
// report to the acting principal.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
