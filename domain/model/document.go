// Пакет model — доменные модели клиентского модуля Tesisteca.
// Структуры полностью совместимы с JSON-представлением REST API репозитория
// (коллекции /resources, /resource-user, /categories, /faculties, /careers,
// /students, /reviewers).
package model

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout — формат даты публикации на проводе (YYYY-MM-DD).
const dateLayout = "2006-01-02"

// Date — дата публикации документа.
// API в разных ручках возвращает как "2006-01-02", так и полный RFC3339 —
// тип принимает оба варианта, сериализует всегда как "2006-01-02".
type Date struct {
	time.Time
}

// NewDate создаёт Date из года, месяца и дня (UTC).
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON разбирает дату из "2006-01-02" или RFC3339.
// Пустая строка и null дают нулевую дату (документ без даты публикации).
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("неразборчивая дата публикации %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON сериализует дату как "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// String возвращает дату в проводном формате.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Document — запись документа (ресурса) репозитория.
type Document struct {
	// IDResource — идентификатор документа
	IDResource int `json:"idResource"`
	// Title — заголовок работы
	Title string `json:"title"`
	// Description — аннотация
	Description string `json:"description"`
	// DatePublication — дата публикации
	DatePublication Date `json:"datePublication"`
	// IsActive — видимость документа (false = отключён, soft-delete)
	IsActive bool `json:"isActive"`
	// FilePath — путь к файлу работы (относительный или абсолютный URL)
	FilePath string `json:"filePath"`
	// ImageURL — путь к обложке
	ImageURL string `json:"imageUrl"`
	// IDStudent — FK на студента-автора
	IDStudent int `json:"idStudent"`
	// IDCategory — FK на категорию
	IDCategory int `json:"idCategory"`
	// IDDirector — FK на директора (денормализованное legacy-поле;
	// актуальный состав ролей живёт в resource-user)
	IDDirector int `json:"idDirector"`
}

// Year возвращает год публикации (0 для нулевой даты).
func (doc *Document) Year() int {
	if doc.DatePublication.IsZero() {
		return 0
	}
	return doc.DatePublication.Year()
}

// Relation — связь документ-пользователь из коллекции /resource-user.
// Роль связи не хранится в записи — она выводится из поля rol пользователя.
type Relation struct {
	// IDUser — идентификатор пользователя
	IDUser int `json:"idUser"`
	// IDResource — идентификатор документа
	IDResource int `json:"idResource"`
}

// EnrichedDocument — документ, обогащённый списком связанных пользователей.
// RelatedUsers НИКОГДА не nil: документ без связей получает пустой срез.
type EnrichedDocument struct {
	Document
	// RelatedUsers — idUser всех связей документа, в порядке списка связей
	RelatedUsers []int `json:"relatedUsers"`
}
