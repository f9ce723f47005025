// roles.go — связывание документов с людьми.
// RelationIndex — предвычисленный индекс idResource → idUser (строится один
// раз на загрузку списка связей, вместо линейного прохода по плоскому
// списку на каждом обращении). ResolveRoles — разбор связей документа на
// роли через поле rol пользователя.
package store

import "github.com/bigkaa/tesisteca/client-module/domain/model"

// RelationIndex — индекс связей: idResource → idUser в порядке списка связей.
type RelationIndex map[int][]int

// NewRelationIndex строит индекс из плоского списка связей.
func NewRelationIndex(relations []model.Relation) RelationIndex {
	ix := make(RelationIndex, len(relations))
	for _, rel := range relations {
		ix[rel.IDResource] = append(ix[rel.IDResource], rel.IDUser)
	}
	return ix
}

// RelatedUsers возвращает idUser связей документа.
// Документ без связей получает пустой срез, никогда не nil.
func (ix RelationIndex) RelatedUsers(idResource int) []int {
	ids := ix[idResource]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// ResolveRoles разбирает связи документа на роли.
//
// Каждая связь отображается в пользователя; пользователи разбиваются по
// полю rol: директор (ожидается один), супервайзер (ожидается один),
// ревизоры (до двух, в порядке списка связей). Для единичных ролей при
// некорректных данных (больше одного кандидата) молча побеждает первый
// встреченный. Отсутствующая роль — nil («не назначен»), не ошибка:
// пайплайн никогда не падает на неполных данных. Функция чистая и
// идемпотентная.
func ResolveRoles(idResource int, ix RelationIndex, users []model.User) model.DocumentRoles {
	byID := make(map[int]*model.User, len(users))
	for i := range users {
		byID[users[i].IDUser] = &users[i]
	}

	var roles model.DocumentRoles
	for _, idUser := range ix[idResource] {
		user, ok := byID[idUser]
		if !ok {
			// Связь на несуществующего пользователя — пропускаем
			continue
		}
		switch user.Rol {
		case model.RoleDirector:
			if roles.Director == nil {
				roles.Director = user
			}
		case model.RoleSupervisor:
			if roles.Supervisor == nil {
				roles.Supervisor = user
			}
		case model.RoleRevisor:
			roles.Reviewers = append(roles.Reviewers, *user)
		}
	}
	return roles
}
