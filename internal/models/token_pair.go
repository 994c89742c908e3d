package models

import "time"

// TokenPair — пара токенов, выдаваемая при входе или обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT той же формы claims, который клиент
//     предъявляет для выпуска новой пары; на сервере не хранится —
//     валидность определяется подписью и сроком действия;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — JWT для обновления пары.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
}
