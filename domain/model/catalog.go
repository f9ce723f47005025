package model

// Справочные сущности. Инварианты цепочки внешних ключей:
// Document.IDStudent → Student.IDCareer → Career.IDFaculty → Faculty.
// Цепочка обходится фильтром по факультету; клиент её не enforce'ит.

// Student — студент-автор документа (коллекция /students).
type Student struct {
	// IDStudent — идентификатор студента
	IDStudent int `json:"idStudent"`
	// Name — полное имя
	Name string `json:"name"`
	// IDCareer — FK на специальность
	IDCareer int `json:"idCareer"`
	// IsActive — активность записи
	IsActive bool `json:"isActive"`
}

// Career — специальность (коллекция /careers).
type Career struct {
	// IDCareer — идентификатор специальности
	IDCareer int `json:"idCareer"`
	// Name — название
	Name string `json:"name"`
	// IDFaculty — FK на факультет
	IDFaculty int `json:"idFaculty"`
}

// Faculty — факультет (коллекция /faculties).
type Faculty struct {
	// IDFaculty — идентификатор факультета
	IDFaculty int `json:"idFaculty"`
	// Name — название
	Name string `json:"name"`
}

// Category — категория документа (коллекция /categories).
type Category struct {
	// IDCategory — идентификатор категории
	IDCategory int `json:"idCategory"`
	// Name — название
	Name string `json:"name"`
	// Description — описание
	Description string `json:"description"`
}
