package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"record not found", gorm.ErrRecordNotFound, CodeNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), CodeNotFound, http.StatusNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505"}, CodeConflict, http.StatusConflict},
		{"pg fk", &pgconn.PgError{Code: "23503"}, CodePreconditionFailed, http.StatusPreconditionFailed},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, CodeRetryable, http.StatusServiceUnavailable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: auth_user.username"), CodeConflict, http.StatusConflict},
		{"other", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Map("op", tc.err)
			var ae *Error
			if !errors.As(got, &ae) {
				t.Fatalf("Map: want *Error got=%T", got)
			}
			if ae.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, ae.Code)
			}
			if ae.Status != tc.status {
				t.Fatalf("status: want=%d got=%d", tc.status, ae.Status)
			}
		})
	}
}

func TestMapKeepsExistingCode(t *testing.T) {
	in := Validation("username is required")
	got := Map("register", in)
	if CodeOf(got) != CodeValidation {
		t.Fatalf("CodeOf: want=%q got=%q", CodeValidation, CodeOf(got))
	}
	if !IsCode(fmt.Errorf("outer: %w", got), CodeValidation) {
		t.Fatalf("IsCode: expected wrapped validation error to match")
	}
}

func TestMapNil(t *testing.T) {
	if Map("op", nil) != nil {
		t.Fatalf("Map(nil): want nil")
	}
}
