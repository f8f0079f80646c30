package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// global validator instance
var validate *validator.Validate

var (
	taskIDPattern       = regexp.MustCompile(`^T\d{3,}$`)
	sprintIDPattern     = regexp.MustCompile(`^S\d{3,}$`)
	backlogIDPattern    = regexp.MustCompile(`^B\d{3,}$`)
	employeeNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

func init() {
	validate = validator.New()
	mustRegister("taskid", taskIDPattern)
	mustRegister("sprintid", sprintIDPattern)
	mustRegister("backlogid", backlogIDPattern)
	mustRegister("employeename", employeeNamePattern)
}

func mustRegister(tag string, pattern *regexp.Regexp) {
	err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
