// policy.go — декларативная политика авторизации.
// Вместо плоских списков ролей на каждом маршруте — единая таблица
// «способность → допустимые роли», к которой обращается один guard
// (Session.Authorize). Политика не привязана к какой-либо библиотеке
// маршрутизации потребителя.
package auth

import (
	"errors"
	"fmt"

	"github.com/bigkaa/tesisteca/client-module/domain/model"
)

// Ошибки авторизации.
var (
	// ErrNotAuthenticated — нет активной сессии.
	ErrNotAuthenticated = errors.New("пользователь не аутентифицирован")
	// ErrForbidden — роли сессии недостаточно для способности.
	ErrForbidden = errors.New("недостаточно прав")
)

// Capability — именованная способность (экран или группа операций).
type Capability string

const (
	// CapBrowse — публичный просмотр каталога документов.
	CapBrowse Capability = "browse"
	// CapManageDocuments — CRUD документов и назначение ролей.
	CapManageDocuments Capability = "manage_documents"
	// CapManageCatalog — CRUD справочников (категории, факультеты,
	// специальности, студенты).
	CapManageCatalog Capability = "manage_catalog"
	// CapManageUsers — CRUD пользователей-ревьюеров.
	CapManageUsers Capability = "manage_users"
)

// Policy — таблица «способность → допустимые роли».
// Отсутствующая в таблице способность запрещена для всех.
type Policy map[Capability][]string

// DefaultPolicy возвращает политику по умолчанию.
// Просмотр публичен (пустой список = роль не требуется, достаточно
// аутентификации не требуется вовсе); управление документами доступно
// всем назначаемым ролям и администратору; справочники и пользователи —
// только администратору.
func DefaultPolicy() Policy {
	return Policy{
		CapBrowse: {},
		CapManageDocuments: {
			model.RoleAdmin, model.RoleDirector, model.RoleSupervisor, model.RoleRevisor,
		},
		CapManageCatalog: {model.RoleAdmin},
		CapManageUsers:   {model.RoleAdmin},
	}
}

// Public сообщает, открыта ли способность без аутентификации.
func (p Policy) Public(capability Capability) bool {
	roles, ok := p[capability]
	return ok && len(roles) == 0
}

// Allows проверяет, допускает ли политика роль role к способности.
func (p Policy) Allows(capability Capability, role string) error {
	roles, ok := p[capability]
	if !ok {
		return fmt.Errorf("%w: способность %q не определена политикой", ErrForbidden, capability)
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return fmt.Errorf("%w: роль %q не допущена к %q", ErrForbidden, role, capability)
}
