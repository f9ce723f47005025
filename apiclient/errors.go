// errors.go — разбор ошибок API.
// Сервер возвращает либо {message}, либо {errors: [{field, message}]}
// (per-field валидация). Обе формы сводятся к *APIError.
package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FieldError — серверная ошибка валидации одного поля формы.
type FieldError struct {
	// Field — имя поля
	Field string `json:"field"`
	// Message — человекочитаемое сообщение
	Message string `json:"message"`
}

// APIError — ошибка, сообщённая сервером API (не-2xx ответ).
type APIError struct {
	// StatusCode — HTTP-статус ответа
	StatusCode int
	// Message — общее сообщение сервера
	Message string
	// FieldErrors — per-field ошибки валидации (может быть пустым)
	FieldErrors []FieldError
}

// Error реализует error.
func (e *APIError) Error() string {
	if len(e.FieldErrors) > 0 {
		parts := make([]string, 0, len(e.FieldErrors))
		for _, fe := range e.FieldErrors {
			parts = append(parts, fe.Field+": "+fe.Message)
		}
		return fmt.Sprintf("API %d: %s", e.StatusCode, strings.Join(parts, "; "))
	}
	if e.Message != "" {
		return fmt.Sprintf("API %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API %d", e.StatusCode)
}

// IsNotFound сообщает, что сервер вернул 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized сообщает, что сервер вернул 401.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// errorEnvelope — проводной формат тела ошибки.
type errorEnvelope struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// decodeAPIError разбирает тело не-2xx ответа в *APIError.
// Неразборчивое тело не ошибка: остаётся только статус-код.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Не-JSON тело (например, HTML от прокси) — сохраняем как сообщение
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Message = envelope.Message
	apiErr.FieldErrors = envelope.Errors
	return apiErr
}
