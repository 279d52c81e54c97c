package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"

	"kursusku_backend/internals/features/users/auth/dto"
	userModel "kursusku_backend/internals/features/users/users/model"
)

const accessTTLDefault = 24 * time.Hour

var ErrInvalidGoogleToken = errors.New("invalid google id token")

// Interface so tests can swap in fakes.
type AccountStore interface {
	EnsureUser(ctx context.Context, email string, googleSub, name *string) (*userModel.UserModel, error)
}

// googleVerifier validates the ID token against Google's certs and returns
// (email, name, sub). Tests replace it to stay off the network.
type googleVerifier func(idToken string) (string, string, string, error)

type AuthService struct {
	Accounts AccountStore

	JWTSecret      string
	GoogleClientID string
	AccessTTL      time.Duration

	verify googleVerifier
}

func NewAuthService(accounts AccountStore, jwtSecret, googleClientID string) *AuthService {
	s := &AuthService{
		Accounts:       accounts,
		JWTSecret:      jwtSecret,
		GoogleClientID: googleClientID,
		AccessTTL:      accessTTLDefault,
	}
	s.verify = s.verifyWithGoogle
	return s
}

// WithVerifier overrides the Google call; test hook.
func (s *AuthService) WithVerifier(fn googleVerifier) *AuthService {
	s.verify = fn
	return s
}

func (s *AuthService) verifyWithGoogle(idToken string) (string, string, string, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{s.GoogleClientID}); err != nil {
		return "", "", "", ErrInvalidGoogleToken
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", "", "", ErrInvalidGoogleToken
	}
	return claimSet.Email, claimSet.Name, claimSet.Sub, nil
}

// ExchangeGoogleToken swaps a verified Google ID token for our access token.
// First sign-in creates the account row with the default role. The token
// carries identity only; roles are read from storage on every request, so a
// demotion never waits for re-login.
func (s *AuthService) ExchangeGoogleToken(ctx context.Context, req *dto.GoogleExchangeRequest) (*dto.TokenResponse, error) {
	email, name, sub, err := s.verify(req.IDToken)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidGoogleToken
	}

	var namePtr, subPtr *string
	if n := strings.TrimSpace(name); n != "" {
		namePtr = &n
	}
	if sub != "" {
		subPtr = &sub
	}

	user, err := s.Accounts.EnsureUser(ctx, email, subPtr, namePtr)
	if err != nil {
		return nil, fmt.Errorf("ensure account: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"typ":        "access",
		"sub":        user.UserID.String(),
		"id":         user.UserID.String(),
		"user_email": user.UserEmail,
		"iat":        now.Unix(),
		"exp":        now.Add(s.accessTTL()).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	log.Printf("[AUTH] SUCCESS google-exchange user=%s", user.UserEmail)
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL().Seconds()),
		UserEmail:   user.UserEmail,
		UserRole:    user.EffectiveRole(),
	}, nil
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return accessTTLDefault
}
