package browse

import (
	"testing"
	"time"

	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

func date(year, month, day int) model.Date {
	return model.Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func doc(id int, title string, year, idStudent, idCategory, idDirector int, active bool) model.EnrichedDocument {
	return model.EnrichedDocument{
		Document: model.Document{
			IDResource:      id,
			Title:           title,
			DatePublication: date(year, 6, 1),
			IsActive:        active,
			IDStudent:       idStudent,
			IDCategory:      idCategory,
			IDDirector:      idDirector,
		},
		RelatedUsers: []int{},
	}
}

// Справочники фикстуры:
//   студент 1 → карьера 10 → факультет 100
//   студент 2 → карьера 20 → факультет 200
//   студент 3 → карьера 99 (битая ссылка: такой карьеры нет)
func fixture() (docs []model.EnrichedDocument, students []model.Student, careers []model.Career, users []model.User) {
	docs = []model.EnrichedDocument{
		doc(1, "Sistema de riego automatizado", 2023, 1, 5, 30, true),
		doc(2, "Red neuronal para diagnóstico", 2024, 2, 5, 31, true),
		doc(3, "Archivo histórico municipal", 2022, 3, 6, 30, false),
	}
	students = []model.Student{
		{IDStudent: 1, Name: "Ana", IDCareer: 10, IsActive: true},
		{IDStudent: 2, Name: "Luis", IDCareer: 20, IsActive: true},
		{IDStudent: 3, Name: "Eva", IDCareer: 99, IsActive: true},
	}
	careers = []model.Career{
		{IDCareer: 10, Name: "Sistemas", IDFaculty: 100},
		{IDCareer: 20, Name: "Medicina", IDFaculty: 200},
	}
	users = []model.User{
		{IDUser: 30, Name: "Dra. López", Rol: model.RoleDirector},
		{IDUser: 31, Name: "Dr. Ramírez", Rol: model.RoleDirector},
	}
	return
}

func ids(docs []model.EnrichedDocument) []int {
	out := make([]int, len(docs))
	for i := range docs {
		out[i] = docs[i].IDResource
	}
	return out
}

func assertIDs(t *testing.T, got []model.EnrichedDocument, want ...int) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("ожидали документы %v, получили %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("ожидали документы %v (порядок сохраняется), получили %v", want, gotIDs)
		}
	}
}

func TestApplyEmptyFiltersPassEverything(t *testing.T) {
	docs, students, careers, users := fixture()
	got := Apply(docs, students, careers, users, Filters{}, "", Options{})
	assertIDs(t, got, 1, 2, 3)
}

func TestApplyActiveOnlyHidesDisabled(t *testing.T) {
	docs, students, careers, users := fixture()
	got := Apply(docs, students, careers, users, Filters{}, "", Options{ActiveOnly: true})
	assertIDs(t, got, 1, 2)
}

func TestApplyCategory(t *testing.T) {
	docs, students, careers, users := fixture()
	got := Apply(docs, students, careers, users, Filters{Categories: []int{6}}, "", Options{})
	assertIDs(t, got, 3)
}

func TestApplyYears(t *testing.T) {
	docs, students, careers, users := fixture()
	got := Apply(docs, students, careers, users, Filters{Years: []int{2023, 2022}}, "", Options{})
	assertIDs(t, got, 1, 3)
}

func TestApplyFacultyChain(t *testing.T) {
	docs, students, careers, users := fixture()

	got := Apply(docs, students, careers, users, Filters{Faculties: []int{100}}, "", Options{})
	assertIDs(t, got, 1)

	// документ 3: студент 3 ссылается на несуществующую карьеру —
	// разрыв цепочки молча исключает документ
	got = Apply(docs, students, careers, users, Filters{Faculties: []int{100, 200}}, "", Options{})
	assertIDs(t, got, 1, 2)
}

func TestApplyFacultyChainMissingStudent(t *testing.T) {
	docs, students, careers, users := fixture()
	docs = append(docs, doc(4, "Huérfano", 2024, 777, 5, 30, true))

	got := Apply(docs, students, careers, users, Filters{Faculties: []int{100, 200}}, "", Options{})
	assertIDs(t, got, 1, 2)
}

func TestApplyCareerModes(t *testing.T) {
	docs, students, careers, users := fixture()

	// career: настоящая карьера студента документа
	got := Apply(docs, students, careers, users, Filters{Careers: []int{10}}, "", Options{CareerFilterMode: CareerFilterCareer})
	assertIDs(t, got, 1)

	// legacy: id карьеры сравнивается с idStudent — карьера 10 не
	// совпадает ни с одним студентом
	got = Apply(docs, students, careers, users, Filters{Careers: []int{10}}, "", Options{CareerFilterMode: CareerFilterLegacy})
	assertIDs(t, got)

	// legacy: случайное числовое совпадение id (студент 2)
	got = Apply(docs, students, careers, users, Filters{Careers: []int{2}}, "", Options{CareerFilterMode: CareerFilterLegacy})
	assertIDs(t, got, 2)
}

func TestApplySearchTitle(t *testing.T) {
	docs, students, careers, users := fixture()
	got := Apply(docs, students, careers, users, Filters{}, "RIEGO", Options{})
	assertIDs(t, got, 1)
}

func TestApplySearchDirectorName(t *testing.T) {
	docs, students, careers, users := fixture()

	// директор документов 1 и 3 — «Dra. López»
	got := Apply(docs, students, careers, users, Filters{}, "lópez", Options{})
	assertIDs(t, got, 1, 3)

	// диакритика не сворачивается: «lopez» не находит «López»
	got = Apply(docs, students, careers, users, Filters{}, "lopez", Options{})
	assertIDs(t, got)
}

func TestApplyFiltersConjunction(t *testing.T) {
	docs, students, careers, users := fixture()
	got := Apply(docs, students, careers, users,
		Filters{Categories: []int{5}, Years: []int{2023}}, "", Options{})
	assertIDs(t, got, 1)
}
