package models

const (
	StatusNormal  = "NORMAL"
	StatusDeleted = "DELETED"
)

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string  `gorm:"unique;not null"          json:"username"`
	PasswordHash string  `gorm:"not null"                 json:"-"`
	Role         string  `gorm:"not null;default:user"    json:"role"`
	Status       string  `gorm:"not null;default:NORMAL"  json:"status"`
	RefreshToken *string `json:"-"`
	Nickname     string  `json:"nickname"`
	Introduce    string  `json:"introduce"`
	PictureURL   string  `json:"picture_url"`
}

type Board struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint   `gorm:"index;not null"           json:"owner_id"`
	Name        string `gorm:"not null"                 json:"name"`
	Description string `json:"description"`
}
