package model

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    int64
	UpdatedAt    int64
}
