package validation

import (
	"errors"
	"strings"
	"testing"
)

type rated struct {
	Score int    `validate:"min=1,max=10"`
	Name  string `validate:"required"`
}

func TestStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   rated
		wantErr string
		fields  int
	}{
		{name: "valid", input: rated{Score: 5, Name: "ok"}},
		{name: "below range", input: rated{Score: 0, Name: "ok"}, wantErr: "score must be at least 1", fields: 1},
		{name: "above range", input: rated{Score: 11, Name: "ok"}, wantErr: "score must be at most 10", fields: 1},
		{name: "two failures", input: rated{Score: 42}, wantErr: "name is required", fields: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Struct(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if len(verr.Fields) != tt.fields {
				t.Fatalf("expected %d field errors, got %d", tt.fields, len(verr.Fields))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q in %q", tt.wantErr, err.Error())
			}
		})
	}
}
