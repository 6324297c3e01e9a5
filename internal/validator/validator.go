// Package validator wires go-playground/validator into gin's binding
// engine with English messages keyed by JSON field name.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var trans ut.Translator

// Setup registers the validator with English translations on Gin's
// binding engine. Call once during application startup.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(tagNotBlank, notBlank)

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterTranslation(tagNotBlank, trans,
		func(tr ut.Translator) error {
			return tr.Add(tagNotBlank, "{0} must not be blank", true)
		},
		func(tr ut.Translator, fe govalidator.FieldError) string {
			msg, _ := tr.T(tagNotBlank, fe.Field())
			return msg
		},
	)
}

// tagNotBlank rejects strings made only of whitespace. "required" alone
// lets "   " through as a username or password.
const tagNotBlank = "notblank"

func notBlank(fl govalidator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// TranslateErrors maps a binding error to field name → message. Errors
// that are not validation errors end up under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
