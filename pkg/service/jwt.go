package service

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "pharma-pos/pkg/errors"
)

// JwtCustomClaim — claims токена кассира/администратора из Web POS.
// Токены выпускает внешний сервис авторизации, здесь мы их только проверяем.
type JwtCustomClaim struct {
	UserID   int    `json:"userId"`
	Role     string `json:"role"`
	BranchID int    `json:"branchId"`
	Area     string `json:"area"`
	jwt.RegisteredClaims
}

type JWTService interface {
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
}

type jwtService struct {
	secretKey string
	logger    *zap.Logger
}

func NewJWTService(secretKey string, logger *zap.Logger) JWTService {
	return &jwtService{secretKey: secretKey, logger: logger}
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(s.secretKey), nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		s.logger.Warn("Ошибка парсинга или проверки подписи токена", zap.Error(err))
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return claims, nil
}
