package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"albion-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

type AttendanceRequest struct {
	GuildName  string            `json:"guildName" validate:"required,max=64"`
	PlayerList []string          `json:"playerList" validate:"required,max=1000,dive,max=64"`
	MinGP      int               `json:"minGP" validate:"gte=0,lte=300"`
	GuildInfo  *domain.GuildInfo `json:"guildInfo,omitempty"`
}

// ValidationError rejects a request before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims the guild name so whitespace-only names fail validation.
func (r *AttendanceRequest) Normalize() {
	r.GuildName = strings.TrimSpace(r.GuildName)
}

func (r *AttendanceRequest) Validate() error {
	r.Normalize()
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "is required"}
	case "max":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %s", fe.Param())}
	case "gte", "lte":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("out of range (%s %s)", fe.Tag(), fe.Param())}
	default:
		return &ValidationError{Field: field, Reason: fmt.Sprintf("failed %s", fe.Tag())}
	}
}
