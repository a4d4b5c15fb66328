package models

import "time"

// User represents a colonist. Only id, surname and name are serialized, so
// news authors and job members can be listed publicly without their contact data.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Surname      string    `json:"surname" gorm:"type:varchar(100);not null"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Age          int       `json:"-"`
	Position     string    `json:"-" gorm:"type:varchar(255)"`
	Speciality   string    `json:"-" gorm:"type:varchar(255)"`
	Address      string    `json:"-" gorm:"type:varchar(255)"`
	Email        string    `json:"-" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	News         []News    `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// UserProfile is the full profile, shown only to the colonist it belongs to.
type UserProfile struct {
	ID         uint      `json:"id"`
	Surname    string    `json:"surname"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Position   string    `json:"position"`
	Speciality string    `json:"speciality"`
	Address    string    `json:"address"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// Profile returns the private view of u.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:         u.ID,
		Surname:    u.Surname,
		Name:       u.Name,
		Age:        u.Age,
		Position:   u.Position,
		Speciality: u.Speciality,
		Address:    u.Address,
		Email:      u.Email,
		CreatedAt:  u.CreatedAt,
	}
}
