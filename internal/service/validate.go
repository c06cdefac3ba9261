package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"tumanina/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their stored name so messages line up with form inputs.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRecord runs the validate tags of rec and converts failures to a ValidationError.
func validateRecord(rec any) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make([]FieldError, len(ve))
	for i, fe := range ve {
		out[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: fieldMessage(fe.Tag(), fe.Param())}
	}
	return &ValidationError{Fields: out}
}

// coercionError converts schema coercion failures to a ValidationError.
func coercionError(err error) error {
	var ce model.CoercionErrors
	if !errors.As(err, &ce) {
		return err
	}
	out := make([]FieldError, len(ce))
	for i, c := range ce {
		out[i] = FieldError{Field: c.Field, Tag: "type", Message: fieldMessage("type", "")}
	}
	return &ValidationError{Fields: out}
}

// fieldMessage returns the Arabic message shown next to an invalid form field.
func fieldMessage(tag, param string) string {
	switch tag {
	case "required":
		return "هذا الحقل مطلوب"
	case "email":
		return "البريد الإلكتروني غير صالح"
	case "url":
		return "الرابط غير صالح"
	case "oneof":
		return "القيمة غير مسموح بها"
	case "gt":
		return fmt.Sprintf("يجب أن تكون القيمة أكبر من %s", param)
	case "min":
		return fmt.Sprintf("يجب ألا تقل القيمة عن %s", param)
	case "max":
		return fmt.Sprintf("يجب ألا تزيد القيمة عن %s", param)
	case "type":
		return "نوع القيمة غير صحيح"
	default:
		return "القيمة غير صالحة"
	}
}
