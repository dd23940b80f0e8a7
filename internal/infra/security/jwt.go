package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domuser "example.com/phonestore/internal/domain/user"
	authuc "example.com/phonestore/internal/usecase/auth"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// JWTService signs the storefront session. Claims are signed, not encrypted:
// the catalog API token in "upt" is readable by whoever holds the session
// token, the same exposure the browser had when it kept that token itself.
// Only the signature stops a client from swapping it.
type JWTService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewJWTService(secret string, expiration time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

type sessionClaims struct {
	SessionID     string   `json:"sid"`
	UserID        string   `json:"uid,omitempty"`
	Email         string   `json:"email,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	UpstreamToken string   `json:"upt,omitempty"`
	jwt.RegisteredClaims
}

func (s *JWTService) GenerateToken(sess *authuc.Session) (string, error) {
	now := s.now()
	roles := make([]string, 0, len(sess.Roles))
	for _, r := range sess.Roles {
		roles = append(roles, string(r))
	}

	claims := sessionClaims{
		SessionID:     sess.ID,
		UserID:        sess.UserID,
		Email:         sess.Email,
		Roles:         roles,
		UpstreamToken: sess.UpstreamToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ParseToken(token string) (*authuc.Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidSessionToken, err)
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, ErrInvalidSessionToken
	}

	return &authuc.Session{
		ID:            claims.SessionID,
		UserID:        claims.UserID,
		Email:         claims.Email,
		Roles:         domuser.ParseRoles(claims.Roles),
		UpstreamToken: claims.UpstreamToken,
	}, nil
}
