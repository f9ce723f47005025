// entities.go — конструкторы хранилищ справочных коллекций.
// Пользователи-ревьюеры управляются через коллекцию /reviewers.
package store

import (
	"log/slog"

	"github.com/bigkaa/tesisteca/client-module/apiclient"
	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

// NewCategories создаёт хранилище категорий.
func NewCategories(api *apiclient.Client, logger *slog.Logger) *Store[model.Category] {
	return New(api,
		Endpoint{Path: "/categories", CollectionKey: "categories", ItemKey: "category"},
		func(c *model.Category) int { return c.IDCategory },
		logger,
	)
}

// NewFaculties создаёт хранилище факультетов.
func NewFaculties(api *apiclient.Client, logger *slog.Logger) *Store[model.Faculty] {
	return New(api,
		Endpoint{Path: "/faculties", CollectionKey: "faculties", ItemKey: "faculty"},
		func(f *model.Faculty) int { return f.IDFaculty },
		logger,
	)
}

// NewCareers создаёт хранилище специальностей.
func NewCareers(api *apiclient.Client, logger *slog.Logger) *Store[model.Career] {
	return New(api,
		Endpoint{Path: "/careers", CollectionKey: "careers", ItemKey: "career"},
		func(c *model.Career) int { return c.IDCareer },
		logger,
	)
}

// NewStudents создаёт хранилище студентов.
func NewStudents(api *apiclient.Client, logger *slog.Logger) *Store[model.Student] {
	return New(api,
		Endpoint{Path: "/students", CollectionKey: "students", ItemKey: "student"},
		func(s *model.Student) int { return s.IDStudent },
		logger,
	)
}

// NewUsers создаёт хранилище пользователей-ревьюеров.
func NewUsers(api *apiclient.Client, logger *slog.Logger) *Store[model.User] {
	return New(api,
		Endpoint{Path: "/reviewers", CollectionKey: "users", ItemKey: "user"},
		func(u *model.User) int { return u.IDUser },
		logger,
	)
}
