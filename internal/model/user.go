package model

// User - зарегистрированный пользователь.
// PasswordHash хранится как bcrypt-хэш и никогда не отдается клиентам.
type User struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"passwordHash,omitempty"`
	Points       int      `json:"points"`
	Level        string   `json:"level"`
	Bio          string   `json:"bio"`
	Badges       []string `json:"badges"`
}

// PublicProfile возвращает копию без хэша пароля для выдачи наружу.
func (u User) PublicProfile() User {
	u.PasswordHash = ""
	return u
}

// Session - refresh-сессия пользователя, живет в Redis с TTL.
type Session struct {
	RefreshUUID string `json:"refreshUuid"`
	Username    string `json:"username"`
}
