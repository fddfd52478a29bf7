package service

import "errors"

var (
	// ErrUnauthorized - нет сессии или токен недействителен (HTTP 401)
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden - роль не позволяет выполнить действие (HTTP 403)
	ErrForbidden = errors.New("forbidden")

	// ErrValidation - некорректные входные данные (HTTP 422)
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition - попытка вернуть заказ в предыдущий статус (HTTP 422)
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUpstream - внешний сервис не вернул нужный результат (HTTP 502)
	ErrUpstream = errors.New("upstream failure")
)
