package mapper

import (
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
)

type UserMapper struct{}

func (UserMapper) EntityToUserResponse(user models.User) response.UserResponseDTO {
	return response.UserResponseDTO{
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Email:      user.Email,
		IsAdmin:    user.IsAdmin,
		CompanyID:  user.CompanyID,
		LocationID: user.LocationID,
	}
}

func (m UserMapper) EntitiesToUserResponses(users []models.User) []response.UserResponseDTO {
	out := make([]response.UserResponseDTO, 0, len(users))
	for _, user := range users {
		out = append(out, m.EntityToUserResponse(user))
	}
	return out
}

func (UserMapper) DtoToUpdate(req request.UpdateUser, user *models.User) {
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.CompanyID != nil {
		user.CompanyID = req.CompanyID
	}
	if req.LocationID != nil {
		user.LocationID = req.LocationID
	}
}
