package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/osahq/conduct/internal/app/models"
)

// RegisterValidators installs custom binding rules on gin's validator engine.
// Call once during bootstrap before the router serves requests.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("student_number", validStudentNumber)
	}
}

// validStudentNumber delegates to the domain rule so the binding layer and
// the services reject the same inputs.
func validStudentNumber(fl validator.FieldLevel) bool {
	return models.ValidStudentNumber(fl.Field().String())
}
