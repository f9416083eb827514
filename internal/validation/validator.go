// Package validation provides custom validators for the application
package validation

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Rule keys reported in FieldErrors
const (
	RuleRequired     = "required"
	RuleMin          = "min"
	RuleMax          = "max"
	RuleDatetime     = "datetime"
	RuleReleaseDate  = "release_date"
	RuleRevisionDate = "revision_date"
	RuleIDExists     = "id_exists"
	RuleNoSpaces     = "nospaces"
)

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := register(v, time.Now); err != nil {
			panic(err)
		}
	}
}

// New returns a standalone engine reading the same `binding` tags as gin.
// now supplies the reference day for the release date rule.
func New(now func() time.Time) *validator.Validate {
	if now == nil {
		now = time.Now
	}
	v := validator.New()
	v.SetTagName("binding")
	if err := register(v, now); err != nil {
		panic(err)
	}
	return v
}

func register(v *validator.Validate, now func() time.Time) error {
	v.RegisterTagNameFunc(jsonTagName)

	if err := v.RegisterValidation(RuleNoSpaces, validateNoSpaces); err != nil {
		return err
	}
	if err := v.RegisterValidation(RuleReleaseDate, releaseDateRule(now)); err != nil {
		return err
	}
	return v.RegisterValidation(RuleRevisionDate, validateRevisionDate)
}

// jsonTagName reports fields by their JSON name
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

func releaseDateRule(now func() time.Time) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		release, err := ParseDate(value)
		if err != nil {
			// datetime reports malformed input
			return true
		}
		return ReleaseDateValid(release, now())
	}
}

// validateRevisionDate compares the field against the sibling DateRelease field
func validateRevisionDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return true
	}
	releaseField := parent.FieldByName("DateRelease")
	if !releaseField.IsValid() || releaseField.Kind() != reflect.String || releaseField.String() == "" {
		return true
	}

	release, err := ParseDate(releaseField.String())
	if err != nil {
		return true
	}
	revision, err := ParseDate(value)
	if err != nil {
		return true
	}
	return RevisionDateValid(release, revision)
}
