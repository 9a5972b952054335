package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures. None of them is surfaced to the caller directly:
// the pipeline treats every one of them as "no identity".
var (
	ErrMissingCredential = errors.New("missing bearer token")
	ErrMalformedToken    = errors.New("malformed token")
	ErrBadSignature      = errors.New("bad token signature")
	ErrExpiredToken      = errors.New("token expired")
	ErrMissingClaims     = errors.New("token claims missing")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// WithClock returns a copy of the service reading time from now.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

func (s *JWTService) Generate(subject string, role Role) (string, error) {
	if subject == "" {
		return "", errors.New(msgSubjectRequired)
	}
	if role == "" {
		return "", errors.New(msgRoleRequired)
	}

	now := s.now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf(msgSignTokenFailedFmt, err)
	}
	return signed, nil
}

// Verify decodes tokenString and returns the Identity it asserts.
// The role is passed through as written in the token.
func (s *JWTService) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrMissingCredential
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrMalformedToken
	}

	if claims.Subject == "" || claims.Role == "" {
		return Identity{}, ErrMissingClaims
	}

	return Identity{Subject: claims.Subject, Role: Role(claims.Role)}, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", ErrMissingClaims, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
