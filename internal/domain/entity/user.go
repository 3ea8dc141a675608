package entity

import "time"

// User representa un usuario del sistema. Email es único (normalizado en minúsculas).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca el password plano
	CreatedAt    time.Time
}
