package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func TestStudentNumberBindingRule(t *testing.T) {
	RegisterValidators()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("gin validator engine is not *validator.Validate")
	}

	type form struct {
		StudentNumber string `binding:"student_number"`
	}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"registrar format", "2021-00154", false},
		{"short serial", "2021-154", true},
		{"missing dash", "202100154", true},
		{"letters in year", "abcd-00154", true},
		{"trailing garbage", "2021-00154x", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(form{StudentNumber: tt.value})
			if (err != nil) != tt.wantErr {
				t.Errorf("validating %q: err = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
