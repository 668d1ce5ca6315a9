package domain

import "time"

type Admin struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Hash      string    `db:"password_hash" json:"-"`
	CreatedAt time.Time `db:"-" json:"createdAt"`
	UpdatedAt time.Time `db:"-" json:"updatedAt"`
}
