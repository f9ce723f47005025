// Package browse — клиентский конвейер просмотра каталога документов:
// фильтрация по измерениям (факультет, карьера, категория, год), текстовый
// поиск и пагинация. Конвейер чистый: принимает срезы, возвращает срез,
// исходный порядок сохраняется.
package browse

import (
	"strings"

	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

// CareerFilterMode управляет семантикой фильтра по карьере.
type CareerFilterMode string

const (
	// CareerFilterLegacy сравнивает выбранные id карьер с idStudent
	// документа. Исторический режим: совпадения случайны и происходят
	// только при числовом равенстве id карьеры и id студента.
	CareerFilterLegacy CareerFilterMode = "legacy"
	// CareerFilterCareer сравнивает с настоящей карьерой студента
	// документа (документ → студент → карьера).
	CareerFilterCareer CareerFilterMode = "career"
)

// Filters — выбранные значения по каждому измерению.
// Пустое измерение пропускает все документы.
type Filters struct {
	Faculties  []int
	Careers    []int
	Categories []int
	Years      []int
}

// Empty сообщает, выбран ли хоть один фильтр.
func (f Filters) Empty() bool {
	return len(f.Faculties) == 0 && len(f.Careers) == 0 &&
		len(f.Categories) == 0 && len(f.Years) == 0
}

// Options — параметры конвейера, приходящие из конфигурации.
type Options struct {
	CareerFilterMode CareerFilterMode
	// ActiveOnly скрывает отключённые документы (публичный каталог).
	ActiveOnly bool
}

// Apply прогоняет документы через все фильтры и текстовый поиск.
//
// Измерения соединяются конъюнкцией: документ проходит, если каждое
// непустое измерение его пропускает. Цепочка факультета идёт
// документ → студент → карьера → факультет; разрыв на любом звене
// (нет студента, нет карьеры) молча исключает документ — это не ошибка,
// справочники могут быть неполны.
//
// Поиск не чувствителен к регистру и ищет подстроку в названии документа
// или в имени его директора. Диакритика не сворачивается: «lópez»
// находит «López», «lopez» — нет.
func Apply(docs []model.EnrichedDocument, students []model.Student, careers []model.Career, users []model.User, f Filters, term string, opts Options) []model.EnrichedDocument {
	studentByID := make(map[int]model.Student, len(students))
	for _, st := range students {
		studentByID[st.IDStudent] = st
	}
	careerByID := make(map[int]model.Career, len(careers))
	for _, c := range careers {
		careerByID[c.IDCareer] = c
	}
	userByID := make(map[int]model.User, len(users))
	for _, u := range users {
		userByID[u.IDUser] = u
	}

	faculties := toSet(f.Faculties)
	careerSet := toSet(f.Careers)
	categories := toSet(f.Categories)
	years := toSet(f.Years)

	needle := strings.ToLower(strings.TrimSpace(term))

	out := make([]model.EnrichedDocument, 0, len(docs))
	for _, doc := range docs {
		if opts.ActiveOnly && !doc.IsActive {
			continue
		}
		if len(categories) > 0 && !categories[doc.IDCategory] {
			continue
		}
		if len(years) > 0 && !years[doc.Year()] {
			continue
		}
		if len(faculties) > 0 && !matchFaculty(doc, studentByID, careerByID, faculties) {
			continue
		}
		if len(careerSet) > 0 && !matchCareer(doc, studentByID, careerSet, opts.CareerFilterMode) {
			continue
		}
		if needle != "" && !matchSearch(doc, userByID, needle) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

// matchFaculty проверяет принадлежность факультету по цепочке
// документ → студент → карьера → факультет.
func matchFaculty(doc model.EnrichedDocument, studentByID map[int]model.Student, careerByID map[int]model.Career, faculties map[int]bool) bool {
	st, ok := studentByID[doc.IDStudent]
	if !ok {
		return false
	}
	c, ok := careerByID[st.IDCareer]
	if !ok {
		return false
	}
	return faculties[c.IDFaculty]
}

// matchCareer проверяет фильтр по карьере в выбранном режиме.
func matchCareer(doc model.EnrichedDocument, studentByID map[int]model.Student, careerSet map[int]bool, mode CareerFilterMode) bool {
	if mode == CareerFilterCareer {
		st, ok := studentByID[doc.IDStudent]
		if !ok {
			return false
		}
		return careerSet[st.IDCareer]
	}
	// legacy: id студента вместо карьеры
	return careerSet[doc.IDStudent]
}

// matchSearch ищет подстроку в названии или в имени директора.
func matchSearch(doc model.EnrichedDocument, userByID map[int]model.User, needle string) bool {
	if strings.Contains(strings.ToLower(doc.Title), needle) {
		return true
	}
	if director, ok := userByID[doc.IDDirector]; ok {
		return strings.Contains(strings.ToLower(director.Name), needle)
	}
	return false
}

func toSet(ids []int) map[int]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
