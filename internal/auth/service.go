package auth

import (
	"errors"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/payrollhq/payroll-management/internal"
)

// Domain errors, all request-scoped.
var (
	ErrMissingFields      = internal.NewValidationError("all fields are required", internal.ErrCodeValidationFailed)
	ErrUserExists         = internal.NewConflictError("email or username already exists", internal.ErrCodeUserExists)
	ErrInvalidCredentials = internal.NewUnauthorizedError("invalid email or password", internal.ErrCodeInvalidCredentials)
	ErrUserNotFound       = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrInvalidToken       = internal.NewUnauthorizedError("invalid token", internal.ErrCodeInvalidToken)
	ErrTokenExpired       = internal.NewUnauthorizedError("token has expired", internal.ErrCodeTokenExpired)
)

// Repository defines the data access methods for users.
type Repository interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
	ExistsByEmailOrUsername(email, username string) (bool, error)
}

type ServiceAPI interface {
	Signup(dto SignupDTO) (*PublicUser, error)
	Authenticate(dto LoginDTO) (string, error)
	Profile(userID string) (*ProfileResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// ProfileResponse is the GET /auth/profile payload.
type ProfileResponse struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Service performs signup, login and token validation.
type Service struct {
	repo           Repository
	tokenGenerator TokenGenerator
	bcryptCost     int
}

func NewService(repo Repository, tokenGen TokenGenerator, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

// Signup creates a user with a hashed password. Duplicate email or username
// is a conflict; the unique indexes on users back the pre-check up under
// concurrent signups.
func (s *Service) Signup(dto SignupDTO) (*PublicUser, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmailOrUsername(dto.Email, dto.Username)
	if err != nil {
		return nil, internal.NewInternalError("failed to check existing users", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	user := &User{
		FullName:     dto.FullName,
		Email:        dto.Email,
		Username:     dto.Username,
		PasswordHash: hash,
		Role:         dto.Role,
	}

	if err := s.repo.Create(user); err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewInternalError("failed to create user", err)
	}

	pub := user.Public()
	return &pub, nil
}

// Authenticate validates credentials and returns a signed access token.
// An unknown email and a wrong password are deliberately indistinguishable.
func (s *Service) Authenticate(dto LoginDTO) (string, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return "", err
	}

	user, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", internal.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateAccessToken(strconv.FormatInt(user.ID, 10), user.Email)
	if err != nil {
		return "", internal.NewInternalError("failed to sign token", err)
	}

	return token, nil
}

// Profile returns the caller's own profile. A valid token for a since-deleted
// user yields not found rather than a blank profile; a storage failure stays
// a server fault.
func (s *Service) Profile(userID string) (*ProfileResponse, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}

	return &ProfileResponse{
		FullName: user.FullName,
		Email:    user.Email,
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// HashPassword creates a bcrypt hash of the password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
