package models

import "time"

type Admin struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null"                      json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null"        json:"name"`
	ParentID  *uint     `gorm:"index"                    json:"parentId"`
	Parent    *Category `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string    `gorm:"size:100;not null;index"  json:"name"`
	Description        string    `gorm:"size:500"                 json:"description"`
	ImageURL           string    `json:"imageUrl"`
	CloudinaryPublicID string    `json:"cloudinaryPublicId"`
	CategoryID         *uint     `gorm:"index"                    json:"categoryId"`
	Category           *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"    json:"category"`
	SubCategoryID      *uint     `gorm:"index"                    json:"subCategoryId"`
	SubCategory        *Category `gorm:"foreignKey:SubCategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"subCategory"`
	CreatedAt          time.Time `json:"createdAt"`
}

type SliderImage struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageURL           string    `gorm:"not null"                 json:"imageUrl"`
	CloudinaryPublicID string    `json:"cloudinaryPublicId"`
	CreatedAt          time.Time `json:"createdAt"`
}

type Contact struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null"        json:"name"`
	Email     string    `gorm:"size:100;not null"        json:"email"`
	Message   string    `gorm:"type:text;not null"       json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// All lists every model in migration order.
func All() []any {
	return []any{&Admin{}, &Category{}, &Product{}, &SliderImage{}, &Contact{}}
}
