package services

import (
	"strings"

	"blog-api/models"
	"blog-api/repositories"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentials = "No active account found with the given credentials"

type AuthService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	Refresh(req models.RefreshRequest) (*models.AccessResponse, error)
	Deactivate(userID uint, req models.DeactivateRequest) error
	GetUserByID(id uint) (*models.User, error)
}

type authService struct {
	tx        repositories.Transactor
	userRepo  repositories.UserRepository
	groupRepo repositories.GroupRepository
	tokens    TokenService
}

func NewAuthService(tx repositories.Transactor, userRepo repositories.UserRepository, groupRepo repositories.GroupRepository, tokens TokenService) AuthService {
	return &authService{tx: tx, userRepo: userRepo, groupRepo: groupRepo, tokens: tokens}
}

func (s *authService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	verr := models.NewValidationError("Registration failed")
	if taken, err := s.userRepo.UsernameExists(req.Username); err != nil {
		return nil, errors.Wrap(err, "check username")
	} else if taken {
		verr.Add("username", "A user with that username already exists.")
	}
	if taken, err := s.userRepo.EmailExists(req.Email); err != nil {
		return nil, errors.Wrap(err, "check email")
	} else if taken {
		verr.Add("email", "A user with that email already exists.")
	}
	if req.Password != req.Password2 {
		verr.Add("password", "Password fields didn't match.")
	}
	for _, problem := range checkPassword(req.Password, req.Username, req.Email) {
		verr.Add("password", problem)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		IsActive: true,
		Profile:  &models.Profile{},
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		group, err := s.groupRepo.WithTx(tx).GetByName(models.GroupUsers)
		if err != nil {
			return errors.Wrap(err, "load default group")
		}
		user.Groups = []models.Group{*group}
		return s.userRepo.WithTx(tx).Create(user)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.FieldError("Registration failed", "username", "A user with that username or email already exists.")
		}
		return nil, errors.Wrap(err, "create user")
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	userResp, err := models.NewUserResponse(user)
	if err != nil {
		return nil, errors.Wrap(err, "map user")
	}

	return &models.AuthResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    userResp,
		Message: "User registered successfully",
	}, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: invalidCredentials}
		}
		return nil, errors.Wrap(err, "load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrorUnauthorized{Message: invalidCredentials}
	}
	if !user.IsActive {
		return nil, models.ErrorUnauthorized{Message: invalidCredentials}
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	userResp, err := models.NewUserResponse(user)
	if err != nil {
		return nil, errors.Wrap(err, "map user")
	}

	return &models.AuthResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    userResp,
		Role:    user.PrimaryGroup(),
	}, nil
}

func (s *authService) Refresh(req models.RefreshRequest) (*models.AccessResponse, error) {
	access, err := s.tokens.Refresh(req.Refresh)
	if err != nil {
		return nil, err
	}
	return &models.AccessResponse{Access: access}, nil
}

// Deactivate is one-way: there is no endpoint to reactivate an account.
func (s *authService) Deactivate(userID uint, req models.DeactivateRequest) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.FieldError("Deactivation failed", "password", "Password is incorrect.")
	}

	return s.tx.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).SetActive(user.ID, false); err != nil {
			return errors.Wrap(err, "deactivate user")
		}
		return s.tokens.RevokeAll(tx, user.ID)
	})
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, errors.Wrap(err, "load user")
	}
	return user, nil
}
