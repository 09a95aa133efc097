package utils

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern             = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	registerOnce            sync.Once
	errUnsupportedValidator = errors.New("binding validator is not go-playground/validator")
)

// RegisterValidation makes gin's validator report json field names and adds the custom tags.
// It is safe to call more than once.
func RegisterValidation() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errUnsupportedValidator
			return
		}
		v.RegisterTagNameFunc(jsonTagName)
		err = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	})
	return err
}

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

// ValidationDetails maps each failing field to a readable message.
// It returns nil when err is not a validation error (malformed JSON, wrong types).
func ValidationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = validationMessage(fe)
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "slug":
		return "must contain only lowercase letters, digits and single dashes"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// BindError answers a failed ShouldBind* call with 400 and, when available, per-field details.
func BindError(ctx *gin.Context, code int, err error) {
	if fields := ValidationDetails(err); fields != nil {
		ErrorWithData(ctx, http.StatusBadRequest, code, "validation failed", gin.H{"fields": fields})
		return
	}
	Error(ctx, http.StatusBadRequest, code, "invalid request payload")
}
