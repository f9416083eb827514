package validation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"financialproducts/internal/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// FieldErrors maps a JSON field name to the first rule it failed
type FieldErrors map[string]string

// Has reports whether field failed any rule
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Messages renders every failure as human text, keyed by field
func (fe FieldErrors) Messages() map[string]string {
	out := make(map[string]string, len(fe))
	for field, rule := range fe {
		out[field] = Message(field, rule)
	}
	return out
}

// Fields returns the failing field names in a stable order
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// FromError converts validator errors into FieldErrors.
// It returns nil when err carries no field failures.
func FromError(err error) FieldErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fe := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		if _, seen := fe[e.Field()]; !seen {
			fe[e.Field()] = e.Tag()
		}
	}
	return fe
}

var fieldLabels = map[string]string{
	"id":            "ID",
	"name":          "Name",
	"description":   "Description",
	"logo":          "Logo",
	"date_release":  "Release date",
	"date_revision": "Revision date",
}

var fieldLimits = map[string][2]int{
	"id":          {3, 10},
	"name":        {5, 100},
	"description": {10, 200},
}

// Message renders the human text for a failed rule
func Message(field, rule string) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	limits := fieldLimits[field]

	switch rule {
	case RuleRequired:
		return fmt.Sprintf("%s is required", label)
	case RuleMin:
		return fmt.Sprintf("%s must have at least %d characters", label, limits[0])
	case RuleMax:
		return fmt.Sprintf("%s must have at most %d characters", label, limits[1])
	case RuleDatetime:
		return fmt.Sprintf("%s must be a date in yyyy-MM-dd format", label)
	case RuleReleaseDate:
		return "Release date must be today or later"
	case RuleRevisionDate:
		return "Revision date must be exactly one year after the release date"
	case RuleIDExists:
		return "ID already exists"
	case RuleNoSpaces:
		return fmt.Sprintf("%s cannot be blank", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// FormValidator validates product forms before they are submitted
type FormValidator struct {
	engine   *validator.Validate
	verifier IDVerifier
	log      *zap.Logger
}

// NewFormValidator creates a validator. verifier may be nil to skip the uniqueness check.
func NewFormValidator(verifier IDVerifier, now func() time.Time, log *zap.Logger) *FormValidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &FormValidator{
		engine:   New(now),
		verifier: verifier,
		log:      log,
	}
}

// ValidateCreate runs the field constraints and, once the identifier is
// well formed, the remote uniqueness check.
func (f *FormValidator) ValidateCreate(ctx context.Context, p models.FinancialProduct) FieldErrors {
	errs := f.validate(p)
	if !errs.Has("id") && idExists(ctx, f.verifier, p.ID, f.log) {
		errs["id"] = RuleIDExists
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateUpdate runs the field constraints only. The identifier is fixed on edit.
func (f *FormValidator) ValidateUpdate(p models.FinancialProduct) FieldErrors {
	errs := f.validate(p.UpdateRequest())
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (f *FormValidator) validate(v any) FieldErrors {
	err := f.engine.Struct(v)
	if err == nil {
		return FieldErrors{}
	}
	if fe := FromError(err); fe != nil {
		return fe
	}
	f.log.Error("validation.engine_failed", zap.Error(err))
	return FieldErrors{"form": strings.TrimSpace(err.Error())}
}
