package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  New(CodeConfiguration, "unknown metric"),
			want: "CONFIGURATION_ERROR: unknown metric",
		},
		{
			name: "with wrapped error",
			err:  Wrap(CodeInternal, "something failed", errors.New("underlying")),
			want: "INTERNAL_ERROR: something failed: underlying",
		},
		{
			name: "formatted",
			err:  DataIntegrityErrorf("duplicate judgment for query %q", "q1"),
			want: `DATA_INTEGRITY_ERROR: duplicate judgment for query "q1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeInternal, "wrapped", underlying)

	if unwrapped := err.Unwrap(); unwrapped != underlying {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlying)
	}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"configuration", ConfigurationError("bad cutoff"), CodeConfiguration, true},
		{"wrong code", ConfigurationError("bad cutoff"), CodeDataIntegrity, false},
		{"wrapped in plain error", fmt.Errorf("loading: %w", ParseErrorf("line %d", 3)), CodeParse, true},
		{"plain error", errors.New("plain"), CodeInternal, false},
		{"nil", nil, CodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if !IsConfiguration(ConfigurationErrorf("k = %d", -1)) {
		t.Error("IsConfiguration() = false, want true")
	}
	if !IsDataIntegrity(DataIntegrityError("duplicate document")) {
		t.Error("IsDataIntegrity() = false, want true")
	}
	if !IsParse(ParseErrorf("too few fields")) {
		t.Error("IsParse() = false, want true")
	}
	if IsConfiguration(DataIntegrityError("duplicate document")) {
		t.Error("IsConfiguration() matched a data integrity error")
	}
}
