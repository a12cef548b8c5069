package service

import (
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"printhub"
	"printhub/internal/api/handler/mapper"
	"printhub/internal/api/handler/request"
	"printhub/internal/api/handler/response"
	"printhub/internal/api/models"
	"printhub/internal/api/repo"
	"printhub/pkg"
)

var ErrInvalidAPIKey = errors.New("invalid API key")

type UserService struct {
	userRepo   *repo.UserRepository
	config     printhub.AppConfig
	logger     zerolog.Logger
	userMapper mapper.UserMapper
}

func NewUserService() *UserService {
	return &UserService{
		userRepo: repo.NewUserRepository(),
		config:   printhub.GetConfig(),
		logger:   printhub.Logger,
	}
}

func (slf *UserService) Login(loginDTO request.LoginDTO) (*response.AuthResponseDTO, error) {
	user, err := slf.userRepo.FindByUsername(loginDTO.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid username or password")
		}
		slf.logger.Error().Err(err).Msg("Error finding user by username")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginDTO.Password)); err != nil {
		return nil, errors.New("invalid username or password")
	}

	token, err := pkg.GenerateToken(user.ID, user.Username, user.IsAdmin, slf.config.JWTConfig.Secret, slf.config.JWTConfig.Expiration)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating token")
		return nil, err
	}

	refreshToken, err := pkg.GenerateRefreshToken(user.ID, slf.config.JWTConfig.Secret, slf.config.JWTConfig.RefreshExpiration)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating refresh token")
		return nil, err
	}

	user.RefreshToken = refreshToken
	if err = slf.userRepo.Update(&user); err != nil {
		slf.logger.Error().Err(err).Msg("Error updating user with refresh token")
		return nil, err
	}

	slf.logger.Info().Uint("userId", user.ID).Msg("User logged in successfully")

	return &response.AuthResponseDTO{
		Token:        token,
		RefreshToken: refreshToken,
		User:         slf.userMapper.EntityToUserResponse(user),
	}, nil
}

func (slf *UserService) RefreshToken(refreshToken string) (response.AuthResponseDTO, error) {
	claims, err := pkg.ValidateRefreshToken(refreshToken, slf.config.JWTConfig.Secret)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Invalid refresh token")
		return response.AuthResponseDTO{}, errors.New("invalid or expired refresh token")
	}

	user, err := slf.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.AuthResponseDTO{}, errors.New("user not found")
		}
		slf.logger.Error().Err(err).Uint("userId", claims.UserID).Msg("Error finding user by ID")
		return response.AuthResponseDTO{}, err
	}

	if user.RefreshToken != refreshToken {
		slf.logger.Warn().Uint("userId", user.ID).Msg("Refresh token mismatch")
		return response.AuthResponseDTO{}, errors.New("invalid refresh token")
	}

	token, err := pkg.GenerateToken(user.ID, user.Username, user.IsAdmin, slf.config.JWTConfig.Secret, slf.config.JWTConfig.Expiration)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating token")
		return response.AuthResponseDTO{}, err
	}

	newRefreshToken, err := pkg.GenerateRefreshToken(user.ID, slf.config.JWTConfig.Secret, slf.config.JWTConfig.RefreshExpiration)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating refresh token")
		return response.AuthResponseDTO{}, err
	}

	user.RefreshToken = newRefreshToken
	if err = slf.userRepo.Update(&user); err != nil {
		slf.logger.Error().Err(err).Msg("Error updating user with refresh token")
		return response.AuthResponseDTO{}, err
	}

	slf.logger.Info().Uint("userId", user.ID).Msg("Token refreshed successfully")
	return response.AuthResponseDTO{
		Token:        token,
		RefreshToken: newRefreshToken,
		User:         slf.userMapper.EntityToUserResponse(user),
	}, nil
}

func (slf *UserService) Create(dto request.CreateUserDTO) (response.UserResponseDTO, error) {
	exists, err := slf.userRepo.ExistsByUsername(dto.Username)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error checking if user exists")
		return response.UserResponseDTO{}, err
	}
	if exists {
		return response.UserResponseDTO{}, errors.New("user with this username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error hashing password")
		return response.UserResponseDTO{}, err
	}

	apiKey, err := pkg.GenerateAPIKey()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating API key")
		return response.UserResponseDTO{}, err
	}

	user := models.User{
		Username:   dto.Username,
		Password:   string(hashedPassword),
		Name:       dto.Name,
		Email:      dto.Email,
		APIKey:     apiKey,
		IsAdmin:    dto.IsAdmin,
		CompanyID:  dto.CompanyID,
		LocationID: dto.LocationID,
	}

	if err = slf.userRepo.Create(&user); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating user")
		return response.UserResponseDTO{}, err
	}

	slf.logger.Info().Uint("userId", user.ID).Str("username", user.Username).Msg("User created")
	return slf.userMapper.EntityToUserResponse(user), nil
}

func (slf *UserService) GetByID(id uint) (response.UserResponseDTO, error) {
	user, err := slf.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.UserResponseDTO{}, errors.New("user not found")
		}
		slf.logger.Error().Err(err).Uint("userId", id).Msg("Error finding user by ID")
		return response.UserResponseDTO{}, err
	}

	return slf.userMapper.EntityToUserResponse(user), nil
}

func (slf *UserService) GetAll() ([]response.UserResponseDTO, error) {
	users, err := slf.userRepo.GetAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	return slf.userMapper.EntitiesToUserResponses(users), nil
}

func (slf *UserService) Update(id uint, dto request.UpdateUser) (response.UserResponseDTO, error) {
	user, err := slf.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.UserResponseDTO{}, errors.New("user not found")
		}
		return response.UserResponseDTO{}, err
	}

	slf.userMapper.DtoToUpdate(dto, &user)
	if dto.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), bcrypt.DefaultCost)
		if err != nil {
			slf.logger.Error().Err(err).Msg("Error hashing password")
			return response.UserResponseDTO{}, err
		}
		user.Password = string(hashedPassword)
	}

	if err = slf.userRepo.Update(&user); err != nil {
		slf.logger.Error().Err(err).Uint("userId", id).Msg("Error updating user")
		return response.UserResponseDTO{}, err
	}

	return slf.userMapper.EntityToUserResponse(user), nil
}

func (slf *UserService) Delete(id uint) error {
	user, err := slf.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return err
	}

	if err := slf.userRepo.Delete(id); err != nil {
		slf.logger.Error().Err(err).Uint("userId", id).Msg("Error deleting user")
		return err
	}

	slf.dropCachedKey(user.APIKey)
	return nil
}

// GetAPIKey returns the caller's current API key.
func (slf *UserService) GetAPIKey(userID uint) (response.APIKeyResponseDTO, error) {
	user, err := slf.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.APIKeyResponseDTO{}, errors.New("user not found")
		}
		return response.APIKeyResponseDTO{}, err
	}
	return response.APIKeyResponseDTO{APIKey: user.APIKey}, nil
}

// RotateAPIKey replaces the caller's API key and invalidates the cached
// lookup for the old one.
func (slf *UserService) RotateAPIKey(userID uint) (response.APIKeyResponseDTO, error) {
	user, err := slf.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.APIKeyResponseDTO{}, errors.New("user not found")
		}
		return response.APIKeyResponseDTO{}, err
	}

	oldKey := user.APIKey
	newKey, err := pkg.GenerateAPIKey()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating API key")
		return response.APIKeyResponseDTO{}, err
	}

	user.APIKey = newKey
	if err = slf.userRepo.Update(&user); err != nil {
		slf.logger.Error().Err(err).Uint("userId", userID).Msg("Error rotating API key")
		return response.APIKeyResponseDTO{}, err
	}

	slf.dropCachedKey(oldKey)
	slf.logger.Info().Uint("userId", userID).Msg("API key rotated")
	return response.APIKeyResponseDTO{APIKey: newKey}, nil
}

// cachedAPIKeyUser is what gets stored in Redis for the auth hot path.
// Agents hit the API on every poll cycle, so key lookups bypass the
// database for the cache TTL.
type cachedAPIKeyUser struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	IsAdmin    bool   `json:"isAdmin"`
	CompanyID  *uint  `json:"companyId,omitempty"`
	LocationID *uint  `json:"locationId,omitempty"`
}

const apiKeyCachePrefix = "apikey:"

// ResolveAPIKey maps an agent API key to its user, consulting the Redis
// cache first.
func (slf *UserService) ResolveAPIKey(apiKey string) (models.User, error) {
	if apiKey == "" {
		return models.User{}, ErrInvalidAPIKey
	}

	var cached cachedAPIKeyUser
	err := pkg.RedisGet(apiKeyCachePrefix+apiKey, &cached)
	if err == nil {
		return models.User{
			ID:         cached.ID,
			Username:   cached.Username,
			APIKey:     apiKey,
			IsAdmin:    cached.IsAdmin,
			CompanyID:  cached.CompanyID,
			LocationID: cached.LocationID,
		}, nil
	}
	if !pkg.IsRedisNil(err) {
		slf.logger.Warn().Err(err).Msg("API key cache lookup failed, falling back to database")
	}

	user, err := slf.userRepo.FindByAPIKey(apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidAPIKey
		}
		slf.logger.Error().Err(err).Msg("Error finding user by API key")
		return models.User{}, err
	}

	cacheErr := pkg.RedisSet(apiKeyCachePrefix+apiKey, cachedAPIKeyUser{
		ID:         user.ID,
		Username:   user.Username,
		IsAdmin:    user.IsAdmin,
		CompanyID:  user.CompanyID,
		LocationID: user.LocationID,
	}, slf.config.DispatchConfig.APIKeyCacheTTL)
	if cacheErr != nil {
		slf.logger.Warn().Err(cacheErr).Msg("Failed to cache API key lookup")
	}

	return user, nil
}

func (slf *UserService) dropCachedKey(apiKey string) {
	if apiKey == "" {
		return
	}
	if err := pkg.RedisDelete(apiKeyCachePrefix + apiKey); err != nil {
		slf.logger.Warn().Err(err).Msg("Failed to invalidate cached API key")
	}
}
