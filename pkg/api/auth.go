// Package api contains the wire types shared by the server and the CLI client.
package api

// TokenTypeBearer is the only token type issued by the server
const TokenTypeBearer = "bearer"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"` // отображаемое имя (опционально)
	Email    string  `json:"email" validate:"required,email,max=255"`         // email, используется как логин
	Password string  `json:"password" validate:"required,min=8"`              // пароль в открытом виде (только по TLS)
}

// LoginForm представляет form-urlencoded запрос на вход.
// Поле username содержит email пользователя.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	TokenType   string `json:"token_type"`   // всегда "bearer"
}

// UserResponse is the public view of a user
type UserResponse struct {
	FullName *string `json:"full_name"`
	Email    string  `json:"email"`
	ID       int64   `json:"id"`
	IsActive bool    `json:"is_active"`
}

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string       `json:"error"`             // метка ошибки, например "Bad Request"
	Message string       `json:"message"`           // сообщение для клиента
	Details []FieldError `json:"details,omitempty"` // ошибки валидации по полям
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app,omitempty"`
	Env     string `json:"env,omitempty"`
	Version string `json:"version,omitempty"`
}
