package model

import "errors"

// Сентинельные ошибки доменного слоя. Обработчики HTTP маппят их на статус-коды.
var (
	// ErrNotFound - сущность с таким ID отсутствует в хранилище.
	ErrNotFound = errors.New("entity not found")
	// ErrUserExists - попытка регистрации занятого имени пользователя.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials - неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation - входные данные отвергнуты до любого I/O.
	ErrValidation = errors.New("validation failed")
	// ErrBadRequest - некорректный запрос (параметры, тело).
	ErrBadRequest = errors.New("bad request")
	// ErrSessionNotFound - refresh-сессия отсутствует или истекла.
	ErrSessionNotFound = errors.New("session not found")
)
