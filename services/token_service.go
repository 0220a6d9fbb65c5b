package services

import (
	"strconv"
	"time"

	"blog-api/config"
	"blog-api/models"
	"blog-api/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

type Claims struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string
	Refresh string
}

var errInvalidToken = models.ErrorUnauthorized{Message: "Token is invalid or expired"}

type TokenService interface {
	Issue(user *models.User) (*TokenPair, error)
	Parse(token string, want TokenType) (*Claims, error)
	Refresh(refreshToken string) (string, error)
	RevokeAll(tx *gorm.DB, userID uint) error
	PurgeExpired() (int64, error)
}

type tokenService struct {
	cfg       config.JWTConfig
	blacklist bool
	tokenRepo repositories.RefreshTokenRepository
	userRepo  repositories.UserRepository
	now       func() time.Time
}

func NewTokenService(cfg config.JWTConfig, blacklist bool, tokenRepo repositories.RefreshTokenRepository, userRepo repositories.UserRepository) TokenService {
	return &tokenService{
		cfg:       cfg,
		blacklist: blacklist,
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

func (s *tokenService) Issue(user *models.User) (*TokenPair, error) {
	access, err := s.sign(user, TokenAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, TokenRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *tokenService) sign(user *models.User, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	expires := now.Add(ttl)
	jti := uuid.NewString()

	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.PrimaryGroup(),
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.SigningKey())
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	if typ == TokenRefresh {
		record := &models.RefreshToken{JTI: jti, UserID: user.ID, ExpiresAt: expires}
		if err := s.tokenRepo.Create(record); err != nil {
			return "", errors.Wrap(err, "record refresh token")
		}
	}
	return signed, nil
}

// Parse verifies signature, expiry and token type.
func (s *tokenService) Parse(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.cfg.SigningKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.TokenType != want {
		return nil, models.ErrorUnauthorized{Message: "Token has wrong type"}
	}
	return claims, nil
}

func (s *tokenService) Refresh(refreshToken string) (string, error) {
	claims, err := s.Parse(refreshToken, TokenRefresh)
	if err != nil {
		return "", err
	}

	if s.blacklist {
		record, err := s.tokenRepo.GetByJTI(claims.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", errInvalidToken
			}
			return "", errors.Wrap(err, "load refresh token")
		}
		if record.IsRevoked() {
			return "", models.ErrorUnauthorized{Message: "Token is blacklisted"}
		}
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.ErrorUnauthorized{Message: "User not found"}
		}
		return "", errors.Wrap(err, "load user")
	}
	if !user.IsActive {
		return "", models.ErrorUnauthorized{Message: "User is inactive"}
	}

	return s.sign(user, TokenAccess, s.cfg.AccessTTL)
}

// RevokeAll marks every outstanding refresh token of the user as revoked.
// A nil tx uses the service's own connection.
func (s *tokenService) RevokeAll(tx *gorm.DB, userID uint) error {
	if !s.blacklist {
		return nil
	}
	repo := s.tokenRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	_, err := repo.RevokeAllForUser(userID, s.now())
	return errors.Wrap(err, "revoke refresh tokens")
}

func (s *tokenService) PurgeExpired() (int64, error) {
	n, err := s.tokenRepo.DeleteExpired(s.now())
	return n, errors.Wrap(err, "purge refresh tokens")
}
