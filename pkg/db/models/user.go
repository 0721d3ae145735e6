package models

import "time"

// User is a sandbox account able to log in and own carts.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Address      string    `gorm:"column:address"`
	Zipcode      string    `gorm:"column:zipcode"`
	NationalID   string    `gorm:"column:national_id"`
	Phone        string    `gorm:"column:phone"`
	State        string    `gorm:"column:state;size:2"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
