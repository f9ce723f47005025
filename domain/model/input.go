package model

import "io"

// Входные формы для create/update операций.
// Теги validate обрабатываются пакетом validate (client-side валидация форм,
// совместимая с серверными per-field сообщениями {field, message}).

// FilePayload — файл для multipart-загрузки (основной файл или обложка).
type FilePayload struct {
	// Filename — имя файла в форме
	Filename string
	// ContentType — MIME-тип (пустая строка — определяет сервер)
	ContentType string
	// Reader — содержимое файла
	Reader io.Reader
}

// DocumentInput — форма создания/редактирования документа.
// При создании File и Image обязательны, при редактировании — опциональны
// (их отсутствие переключает запрос с multipart на plain JSON).
type DocumentInput struct {
	// IDResource — идентификатор (0 при создании)
	IDResource int `json:"idResource,omitempty"`
	// Title — заголовок работы
	Title string `json:"title" validate:"required,max=255"`
	// Description — аннотация
	Description string `json:"description" validate:"required"`
	// DatePublication — дата публикации (YYYY-MM-DD)
	DatePublication Date `json:"datePublication" validate:"required"`
	// IsActive — видимость
	IsActive bool `json:"isActive"`
	// IDStudent — студент-автор
	IDStudent int `json:"idStudent" validate:"required,gt=0"`
	// IDCategory — категория
	IDCategory int `json:"idCategory" validate:"required,gt=0"`
	// File — основной файл (не сериализуется в JSON)
	File *FilePayload `json:"-"`
	// Image — обложка (не сериализуется в JSON)
	Image *FilePayload `json:"-"`
}

// RoleSelection — выбор людей при создании документа.
// Director и Supervisor обязательны, ревизоры — до двух, Revisor2 опционален.
// Ноль означает «не выбран».
type RoleSelection struct {
	// Director — idUser директора
	Director int `validate:"required,gt=0"`
	// Supervisor — idUser супервайзера
	Supervisor int `validate:"required,gt=0"`
	// Revisor1 — idUser первого ревизора
	Revisor1 int `validate:"required,gt=0"`
	// Revisor2 — idUser второго ревизора (0 — не выбран)
	Revisor2 int
}

// UserIDs возвращает выбранные idUser в порядке
// директор, супервайзер, ревизор 1, ревизор 2 (без нулей).
func (s RoleSelection) UserIDs() []int {
	ids := make([]int, 0, 4)
	for _, id := range []int{s.Director, s.Supervisor, s.Revisor1, s.Revisor2} {
		if id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// UserInput — форма создания/редактирования пользователя-ревьюера.
type UserInput struct {
	// Name — полное имя
	Name string `json:"name" validate:"required,max=255"`
	// Email — электронная почта
	Email string `json:"email" validate:"required,email"`
	// Password — пароль (только при создании)
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
	// Rol — роль
	Rol string `json:"rol" validate:"required,oneof=admin director supervisor revisor user"`
	// IsActive — активность
	IsActive bool `json:"isActive"`
}

// StudentInput — форма создания/редактирования студента.
type StudentInput struct {
	// Name — полное имя
	Name string `json:"name" validate:"required,max=255"`
	// IDCareer — специальность
	IDCareer int `json:"idCareer" validate:"required,gt=0"`
	// IsActive — активность
	IsActive bool `json:"isActive"`
}

// CareerInput — форма создания/редактирования специальности.
type CareerInput struct {
	// Name — название
	Name string `json:"name" validate:"required,max=255"`
	// IDFaculty — факультет
	IDFaculty int `json:"idFaculty" validate:"required,gt=0"`
}

// FacultyInput — форма создания/редактирования факультета.
type FacultyInput struct {
	// Name — название
	Name string `json:"name" validate:"required,max=255"`
}

// CategoryInput — форма создания/редактирования категории.
type CategoryInput struct {
	// Name — название
	Name string `json:"name" validate:"required,max=255"`
	// Description — описание
	Description string `json:"description"`
}

// Credentials — форма входа.
type Credentials struct {
	// Email — электронная почта
	Email string `json:"email" validate:"required,email"`
	// Password — пароль
	Password string `json:"password" validate:"required"`
}

// Registration — форма регистрации.
type Registration struct {
	// Name — полное имя
	Name string `json:"name" validate:"required,max=255"`
	// Email — электронная почта
	Email string `json:"email" validate:"required,email"`
	// Password — пароль
	Password string `json:"password" validate:"required,min=8"`
}
