package response

type UserResponseDTO struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsAdmin    bool   `json:"isAdmin"`
	CompanyID  *uint  `json:"companyId,omitempty"`
	LocationID *uint  `json:"locationId,omitempty"`
}

type AuthResponseDTO struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	User         UserResponseDTO `json:"user"`
}

type APIKeyResponseDTO struct {
	APIKey string `json:"apiKey"`
}
