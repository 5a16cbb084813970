package transport

import (
	"time"

	"github.com/Skotchmaster/yoneltic/internal/models"
)

type MessageResponse struct {
	Message string `json:"message"`
}

type RegisterRequest struct {
	Username       string `json:"username"       validate:"required,max=50"`
	Password       string `json:"password"       validate:"required"`
	PasswordRepeat string `json:"passwordRepeat"`
	SecretKey      string `json:"secretKey"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AdminUpdateRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password"`
}

type AdminView struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type CategoryRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	ParentID *uint  `json:"parentId"`
}

type CategoryDTO struct {
	ID            uint          `json:"id"`
	Name          string        `json:"name"`
	ParentID      *uint         `json:"parentId"`
	SubCategories []CategoryDTO `json:"subCategories"`
}

// ProductInput is the multipart form of create and update, without the image part.
type ProductInput struct {
	Name               string `json:"name"        validate:"required,max=100"`
	Description        string `json:"description" validate:"max=500"`
	CategoryID         *uint  `json:"categoryId"`
	SubCategoryID      *uint  `json:"subCategoryId"`
	CloudinaryPublicID string `json:"cloudinaryPublicId"`
}

// ProductQuery keeps CategoryID raw; a malformed value disables the filter.
type ProductQuery struct {
	Page        int
	PageSize    int
	CategoryID  string
	SubCategory string
	Search      string
}

type ProductPage struct {
	Products      []models.Product `json:"products"`
	TotalPages    int              `json:"totalPages"`
	TotalProducts int64            `json:"totalProducts"`
}

type ContactRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,max=100,email"`
	Message string `json:"message" validate:"required"`
}

type ContactPage struct {
	Contacts      []models.Contact `json:"contacts"`
	TotalPages    int              `json:"totalPages"`
	TotalContacts int64            `json:"totalContacts"`
}
