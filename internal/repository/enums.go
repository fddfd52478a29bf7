package repository

import (
	"errors"
	"fmt"
)

// ErrInvalidValue возвращается при разборе неизвестного значения перечисления
var ErrInvalidValue = errors.New("invalid value")

// Role - уровень доступа пользователя
type Role string

const (
	RoleClient  Role = "client"
	RoleBooster Role = "booster"
	RoleAdmin   Role = "admin"
)

// ParseRole разбирает роль из строки
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleClient, RoleBooster, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("role %q: %w", s, ErrInvalidValue)
}

// CanManageOrders - booster и admin могут менять любые заказы и управлять тикетами
func (r Role) CanManageOrders() bool {
	return r == RoleBooster || r == RoleAdmin
}

// CanAdminister - только admin управляет пользователями и командами Discord
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// StaffRoles возвращает роли персонала
func StaffRoles() []Role {
	return []Role{RoleBooster, RoleAdmin}
}

// OrderStatus - статус заказа
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusInProgress OrderStatus = "in_progress"
	StatusCompleted  OrderStatus = "completed"
)

// ParseOrderStatus разбирает статус из строки
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("status %q: %w", s, ErrInvalidValue)
}

func (s OrderStatus) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// CanTransitionTo разрешает только движение вперёд (или тот же статус)
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return next.rank() >= 0 && next.rank() >= s.rank()
}

// Label возвращает человекочитаемое название статуса для сообщений в тикете
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "⏳ Pending"
	case StatusInProgress:
		return "🔄 In Progress"
	case StatusCompleted:
		return "✅ Completed"
	}
	return string(s)
}

// ServiceType - тип услуги
type ServiceType string

const (
	ServicePriorityFarm ServiceType = "priority-farm"
	ServiceLordBoosting ServiceType = "lord-boosting"
)

// ParseServiceType разбирает тип услуги из строки
func ParseServiceType(s string) (ServiceType, error) {
	switch st := ServiceType(s); st {
	case ServicePriorityFarm, ServiceLordBoosting:
		return st, nil
	}
	return "", fmt.Errorf("service type %q: %w", s, ErrInvalidValue)
}

// DisplayName возвращает название услуги для витрины и тикетов
func (s ServiceType) DisplayName() string {
	if s == ServicePriorityFarm {
		return "Priority Farm"
	}
	return "Lord Boosting"
}

// CharacterClass - класс персонажа
type CharacterClass string

const (
	ClassDuelist    CharacterClass = "duelist"
	ClassVanguard   CharacterClass = "vanguard"
	ClassStrategist CharacterClass = "strategist"
)

// ParseCharacterClass разбирает класс персонажа из строки
func ParseCharacterClass(s string) (CharacterClass, error) {
	switch c := CharacterClass(s); c {
	case ClassDuelist, ClassVanguard, ClassStrategist:
		return c, nil
	}
	return "", fmt.Errorf("character class %q: %w", s, ErrInvalidValue)
}
