package core

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: NewValidationError(errors.New("bad"), FieldError{Field: "name", Error: "required"}), want: KindValidation},
		{name: "wrapped not found", err: pkgerrors.Wrap(NewNotFoundError("client", "c1"), "getting client"), want: KindNotFound},
		{name: "unavailable", err: NewUnavailableError("equipment", "e1", "maintenance"), want: KindResourceUnavailable},
		{name: "authorization", err: pkgerrors.Wrap(ErrAuthorizationDenied, "listing"), want: KindAuthorizationDenied},
		{name: "unknown", err: errors.New("connection refused"), want: KindPersistenceFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
