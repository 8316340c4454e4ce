package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/go-playground/validator/v10"
)

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=1024"`
}

type postInput struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
}

// newValidator reports fields by their json names.
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

// validationError turns the first failed rule into a Validation error.
// Field values are never echoed back.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.Internal("validate: %w", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return common.Validation(fe.Field() + " is required")
	case "email":
		return common.Validation(fe.Field() + " must be a valid email address")
	case "min":
		return common.Validation(fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
	case "max":
		return common.Validation(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	default:
		return common.Validation(fe.Field() + " is invalid")
	}
}
