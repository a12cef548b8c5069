package request

type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type CreateUserDTO struct {
	Username   string `json:"username" validate:"required,min=3"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	IsAdmin    bool   `json:"isAdmin"`
	CompanyID  *uint  `json:"companyId"`
	LocationID *uint  `json:"locationId"`
}

type UpdateUser struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=6"`
	IsAdmin    *bool   `json:"isAdmin"`
	CompanyID  *uint   `json:"companyId"`
	LocationID *uint   `json:"locationId"`
}
