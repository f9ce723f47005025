// Package validate — клиентская валидация форм перед отправкой.
// Поверх go-playground/validator; нарушения переводятся в тот же тип
// ошибок полей, что и серверные ответы, — потребитель показывает их
// одинаково. Тексты сообщений — на языке интерфейса (испанский).
package validate

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/bigkaa/tesisteca/client-module/apiclient"
	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// model.Date валидируется как time.Time: required отличает
	// нулевую дату от заполненной
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(model.Date); ok {
			return d.Time
		}
		return nil
	}, model.Date{})
	return v
}

// Struct проверяет структуру формы по её validate-тегам.
// Возвращает nil при успехе, иначе нарушение на каждое поле.
func Struct(v any) []apiclient.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: в валидатор попало не то — ошибка
		// программиста, не формы
		return []apiclient.FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]apiclient.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apiclient.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// message переводит нарушение в сообщение для пользователя.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Este campo es obligatorio"
	case "email":
		return "Correo electrónico inválido"
	case "min":
		return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("Debe tener como máximo %s caracteres", fe.Param())
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Valor inválido, se esperaba uno de: %s", fe.Param())
	default:
		return fmt.Sprintf("Valor inválido (%s)", fe.Tag())
	}
}
