package model

// Роли пользователей. Роль определяет и авторизацию в UI,
// и допустимость назначения на документ (директор/супервайзер/ревизор).
const (
	// RoleAdmin — администратор системы.
	RoleAdmin = "admin"
	// RoleDirector — директор работы.
	RoleDirector = "director"
	// RoleSupervisor — супервайзер работы.
	RoleSupervisor = "supervisor"
	// RoleRevisor — ревизор (рецензент) работы.
	RoleRevisor = "revisor"
	// RoleUser — обычный пользователь без назначений.
	RoleUser = "user"
)

// AssignableRoles — роли, допустимые для связи resource-user.
var AssignableRoles = []string{RoleDirector, RoleSupervisor, RoleRevisor}

// User — пользователь репозитория (коллекция /reviewers).
type User struct {
	// IDUser — идентификатор пользователя
	IDUser int `json:"idUser"`
	// Name — полное имя
	Name string `json:"name"`
	// Email — электронная почта
	Email string `json:"email"`
	// Rol — роль (admin, director, supervisor, revisor, user)
	Rol string `json:"rol"`
	// IsActive — активность учётной записи
	IsActive bool `json:"isActive"`
}

// IsAssignable сообщает, может ли пользователь быть назначен на документ.
func (u *User) IsAssignable() bool {
	for _, r := range AssignableRoles {
		if u.Rol == r {
			return true
		}
	}
	return false
}

// NotAssigned — sentinel для неназначенной роли документа.
// Пайплайн никогда не падает на неполных данных: отсутствующая роль
// отображается этой меткой (язык интерфейса потребителя — испанский).
const NotAssigned = "No asignado"

// DocumentRoles — разрешённые роли одного документа.
// nil-указатель означает «не назначен» (частичные данные — не ошибка).
type DocumentRoles struct {
	// Director — директор работы (ожидается ровно один)
	Director *User
	// Supervisor — супервайзер работы (ожидается ровно один)
	Supervisor *User
	// Reviewers — ревизоры, до двух, в порядке списка связей
	Reviewers []User
}

// DirectorName возвращает имя директора или sentinel NotAssigned.
func (r DocumentRoles) DirectorName() string {
	if r.Director == nil {
		return NotAssigned
	}
	return r.Director.Name
}

// SupervisorName возвращает имя супервайзера или sentinel NotAssigned.
func (r DocumentRoles) SupervisorName() string {
	if r.Supervisor == nil {
		return NotAssigned
	}
	return r.Supervisor.Name
}
