package model

import "time"

// User represents an account record as stored in the `users` table.
// Each field corresponds to a column. The password is kept only as a
// bcrypt hash; handlers define separate response types so the hash is
// never serialized back to clients.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique handle chosen at sign-up.
//  Email        – unique email address, lower-cased and trimmed before storage.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
