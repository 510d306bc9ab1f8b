package form

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError ошибки по полям: имя поля -> сообщение.
// До репозитория такие ошибки не доходят
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "ошибка валидации: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// сообщения для конкретного поля перекрывают общие сообщения тега
var fieldMessages = map[string]string{
	"end_date.required": "Нужно выбрать дату",
}

func message(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "Обязательное поле"
	case "min":
		return fmt.Sprintf("Должно быть не короче %s символов", fe.Param())
	case "max":
		return fmt.Sprintf("Должно быть не длиннее %s символов", fe.Param())
	case "email":
		return "Некорректный адрес почты"
	case "oneof":
		return fmt.Sprintf("Допустимые значения: %s", fe.Param())
	}
	return fmt.Sprintf("Неверное значение (%s)", fe.Tag())
}

// Validate проверяет все поля сразу и возвращает карту ошибок; пустая карта - ошибок нет
func Validate(values any) map[string]string {
	errs := map[string]string{}

	err := validate.Struct(values)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range fieldErrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

// Check то же самое, но в виде error
func Check(values any) error {
	errs := Validate(values)
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}
