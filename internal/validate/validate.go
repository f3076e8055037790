// Package validate wraps go-playground/validator with English messages keyed
// by JSON field names.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks struct tags and renders failures as field messages.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with English translations and JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v, trans: trans}
}

var (
	defaultOnce sync.Once
	defaultV    *Validator
)

// Default returns the process-wide Validator.
func Default() *Validator {
	defaultOnce.Do(func() { defaultV = New() })
	return defaultV
}

// Struct validates s using the default Validator.
func Struct(s any) error {
	return Default().Struct(s)
}

// Struct validates s. Tag failures are returned as *FieldsError.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Namespace()] = e.Translate(v.trans)
	}
	return &FieldsError{Fields: fields}
}

// FieldsError maps failing field paths to readable messages.
type FieldsError struct {
	Fields map[string]string
}

func (f *FieldsError) Error() string {
	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, f.Fields[k])
	}
	return fmt.Sprintf("invalid fields: %s", strings.Join(parts, "; "))
}
