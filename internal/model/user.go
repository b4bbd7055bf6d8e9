package model

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Credentials is the body of both /auth/register and /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

// ErrorBody is the shape of every failure payload the backend sends.
type ErrorBody struct {
	Error string `json:"error"`
}
