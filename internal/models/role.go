// Package models содержит доменные структуры приложения: пользователей,
// жалобы и вспомогательные типы для приёма данных из JSON-запросов.
package models

import "fmt"

// Role — закрытое перечисление ролей пользователя.
// Любая другая строка не проходит через ParseRole и не попадает в домен.
type Role string

const (
	// RoleUser — обычный пользователь, подаёт жалобы и видит только свои.
	RoleUser Role = "user"
	// RoleAdmin — администратор, видит все жалобы и меняет их статус.
	RoleAdmin Role = "admin"
)

// ParseRole преобразует строку в Role, возвращает ошибку для неизвестных значений.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// String реализует fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// Identity — пара (пользователь, роль), извлечённая из проверенного JWT.
type Identity struct {
	Username string // Имя пользователя
	UserUID  string // Уникальный идентификатор пользователя
	Role     Role   // Роль пользователя
}

// IsAdmin сообщает, имеет ли идентичность административную роль.
func (i Identity) IsAdmin() bool {
	switch i.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}
