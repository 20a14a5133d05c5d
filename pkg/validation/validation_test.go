package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Count int     `validate:"gte=0"`
	Ratio float64 `validate:"gte=0,lte=1"`
	Mode  string  `validate:"oneof=fast slow"`
	Name  string  `validate:"required"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name        string
		input       sample
		expectError bool
		errorField  string
	}{
		{"valid", sample{Count: 1, Ratio: 0.5, Mode: "fast", Name: "x"}, false, ""},
		{"negative count", sample{Count: -1, Ratio: 0.5, Mode: "fast", Name: "x"}, true, "Count"},
		{"ratio above max", sample{Ratio: 2, Mode: "slow", Name: "x"}, true, "Ratio"},
		{"unknown mode", sample{Mode: "medium", Name: "x"}, true, "Mode"},
		{"missing name", sample{Mode: "fast"}, true, "Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error for %s", tt.name)
				}
				if !strings.HasPrefix(err.Error(), tt.errorField+":") {
					t.Errorf("Expected error on field %s, got: %v", tt.errorField, err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Expected error for nil struct")
	}
}

func TestFormatValidationError_OneOf(t *testing.T) {
	err := Struct(sample{Mode: "medium", Name: "x"})
	want := `Mode: must be one of [fast slow], got "medium"`
	if err == nil || err.Error() != want {
		t.Errorf("Error() = %v, want %q", err, want)
	}
}

func TestConfigValidator_MinInt(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.MinInt("MaxRemovals", 1, 3)

	if err := cv.Validate(); err == nil || err.Error() != "TestConfig.MaxRemovals: value 1 is below minimum 3" {
		t.Errorf("Validate() = %v", err)
	}
}

func TestConfigValidator_CustomAndWhen(t *testing.T) {
	sentinel := errors.New("boom")

	cv := NewConfigValidator("TestConfig")
	cv.Custom("Field", func() error { return sentinel }).
		When(false, func(v *ConfigValidator) { v.MinInt("Skipped", -1, 0) }).
		When(true, func(v *ConfigValidator) { v.MinInt("Applied", -1, 0) })

	errs := cv.Errors()
	if len(errs) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(errs))
	}
	if !errors.Is(errs[0], sentinel) {
		t.Errorf("Custom error should wrap its cause: %v", errs[0])
	}

	err := cv.Validate()
	if !errors.Is(err, sentinel) {
		t.Errorf("Combined error should wrap every cause: %v", err)
	}
	if !strings.HasPrefix(err.Error(), "TestConfig validation failed with 2 errors") {
		t.Errorf("Unexpected combined message: %v", err)
	}
}
