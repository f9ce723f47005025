// multipart.go — multipart/form-data запросы (создание и редактирование
// документов: поля формы + основной файл + обложка).
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// FormField — одно текстовое поле multipart-формы.
// Порядок полей в запросе совпадает с порядком в срезе.
type FormField struct {
	// Name — имя поля
	Name string
	// Value — значение
	Value string
}

// FilePart — один файл multipart-формы.
type FilePart struct {
	// FieldName — имя поля формы (file, image)
	FieldName string
	// Filename — имя файла
	Filename string
	// ContentType — MIME-тип (пустая строка — application/octet-stream)
	ContentType string
	// Reader — содержимое файла
	Reader io.Reader
}

// PostMultipart выполняет POST с телом multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields []FormField, files []FilePart, out any) error {
	return c.sendMultipart(ctx, http.MethodPost, path, fields, files, out)
}

// PutMultipart выполняет PUT с телом multipart/form-data.
func (c *Client) PutMultipart(ctx context.Context, path string, fields []FormField, files []FilePart, out any) error {
	return c.sendMultipart(ctx, http.MethodPut, path, fields, files, out)
}

// sendMultipart собирает multipart-тело и выполняет запрос через uploadClient
// (увеличенный таймаут для загрузок).
func (c *Client) sendMultipart(ctx context.Context, method, path string, fields []FormField, files []FilePart, out any) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range fields {
		if err := writer.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("запись поля %s: %w", f.Name, err)
		}
	}

	for _, f := range files {
		fw, err := createFilePart(writer, f)
		if err != nil {
			return fmt.Errorf("создание части %s: %w", f.FieldName, err)
		}
		if _, err := io.Copy(fw, f.Reader); err != nil {
			return fmt.Errorf("копирование содержимого %s: %w", f.FieldName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("завершение multipart-тела: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(c.uploadClient, req, out)
}

// createFilePart создаёт файловую часть формы с корректным Content-Type.
func createFilePart(writer *multipart.Writer, f FilePart) (io.Writer, error) {
	if f.ContentType == "" {
		return writer.CreateFormFile(f.FieldName, f.Filename)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.FieldName), escapeQuotes(f.Filename)))
	h.Set("Content-Type", f.ContentType)
	return writer.CreatePart(h)
}

// escapeQuotes экранирует кавычки и обратные слэши в именах файлов.
func escapeQuotes(s string) string {
	r := strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
	return r.Replace(s)
}
