package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"bellashop/internal/domain"
	"bellashop/internal/repos"
)

var ErrBadToken = errors.New("invalid or expired token")

// dummyHash keeps unknown-email logins as slow as wrong-password ones.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bellashop-timing"), bcrypt.DefaultCost)

// AdminClaims is the payload of an admin bearer token.
type AdminClaims struct {
	AdminID int64  `json:"adminId"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Admins *repos.AdminRepo
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewAuthService(admins *repos.AdminRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Admins: admins, Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Login checks email and password and returns the admin with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, string, error) {
	a, err := s.Admins.ByEmail(ctx, email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, "", domain.ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return nil, "", domain.ErrBadCredentials
	}
	tok, err := s.Issue(a)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return a, tok, nil
}

func (s *AuthService) Issue(a *domain.Admin) (string, error) {
	now := s.Now()
	claims := AdminClaims{
		AdminID: a.ID,
		Email:   a.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Verify parses a bearer token and returns its claims.
func (s *AuthService) Verify(token string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Now), jwt.WithExpirationRequired())
	if err != nil || !t.Valid || claims.AdminID <= 0 {
		return nil, ErrBadToken
	}
	return claims, nil
}
