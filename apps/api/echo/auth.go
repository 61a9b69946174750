package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/arcacademy/courseflow/core"
	"github.com/arcacademy/courseflow/core/student"
	"github.com/arcacademy/courseflow/core/teacher"
)

// Roles transmitted in JWT claims. Each portal issues exactly one.
const (
	RoleStudent   = "student"
	RoleTeacher   = "teacher"
	RoleCounselor = "counselor"
)

const tokenContextKey = "actorToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

func newClaims(conf *core.Config, subject, role, name, email string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   subject,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role:  role,
		Name:  name,
		Email: email,
	}
}

func GetStudentClaims(conf *core.Config, stu student.Student) *Claims {
	return newClaims(conf, stu.ID, RoleStudent, stu.Name, "")
}

func GetTeacherClaims(conf *core.Config, tch teacher.Teacher) *Claims {
	return newClaims(conf, tch.Email, RoleTeacher, tch.Name, tch.Email)
}

func GetCounselorClaims(conf *core.Config) *Claims {
	return newClaims(conf, "counselor", RoleCounselor, "Counselor", "")
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// contextActor identifies the caller for error reports; zero value when
// the request carries no valid token.
func contextActor(ctx echo.Context) core.Actor {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Actor{}
	}
	return core.Actor{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
}
