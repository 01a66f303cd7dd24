package domain

import "errors"

var (
	// ErrNotFound — сервер не нашёл запрошенный объект.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized — сессия отсутствует или истекла.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptySearchTerm — пустой поисковый запрос отклоняется без обращения к серверу.
	ErrEmptySearchTerm = errors.New("пустой поисковый запрос")
	// ErrKeyNotFound — ключ отсутствует в хранилище настроек.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidSchedule — расписание не проходит проверку.
	ErrInvalidSchedule = errors.New("некорректное расписание")
	// ErrServerComputed — значение вычисляется только сервером.
	ErrServerComputed = errors.New("значение вычисляется сервером")
	// ErrUnknownCategory — категория отсутствует в списке сервера.
	ErrUnknownCategory = errors.New("неизвестная категория")
)
