package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domcart "example.com/phonestore/internal/domain/cart"
	domuser "example.com/phonestore/internal/domain/user"
)

// Gateway is the catalog API's account surface. The token it returns is opaque.
type Gateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (*domuser.User, error)
	Register(ctx context.Context, email, password string) error
}

// Session is what the storefront remembers about one browser.
type Session struct {
	ID            string
	UserID        string
	Email         string
	Roles         []domuser.RoleCode
	UpstreamToken string
}

func (s *Session) IsGuest() bool {
	return s.UserID == ""
}

// Owner selects the cart slot for this session.
func (s *Session) Owner() domcart.OwnerKey {
	return domcart.OwnerFor(s.UserID)
}

func (s *Session) HasRole(role domuser.RoleCode) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type TokenService interface {
	GenerateToken(s *Session) (string, error)
	ParseToken(token string) (*Session, error)
}

type Service struct {
	gateway Gateway
	tokens  TokenService
	logger  *zap.Logger
}

func NewService(gateway Gateway, tokens TokenService, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gateway: gateway,
		tokens:  tokens,
		logger:  logger,
	}
}

type LoginInput struct {
	SessionID string
	Email     string
	Password  string
}

type LoginResult struct {
	Token   string
	Session *Session
	User    *domuser.User
}

// GuestSession starts a fresh anonymous session.
func (s *Service) GuestSession() (*Session, string, error) {
	sess := &Session{ID: uuid.NewString()}
	token, err := s.tokens.GenerateToken(sess)
	if err != nil {
		return nil, "", err
	}
	return sess, token, nil
}

// Login exchanges credentials with the catalog API and upgrades the browser's
// session. The session id is kept so the browser keeps its slot scope.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	upstreamToken, err := s.gateway.Login(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.gateway.CurrentUser(ctx, upstreamToken)
	if err != nil {
		return nil, err
	}

	sid := in.SessionID
	if sid == "" {
		sid = uuid.NewString()
	}
	sess := &Session{
		ID:            sid,
		UserID:        u.ID,
		Email:         u.Email,
		Roles:         u.Roles,
		UpstreamToken: upstreamToken,
	}
	token, err := s.tokens.GenerateToken(sess)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID), zap.String("session_id", sid))
	return &LoginResult{Token: token, Session: sess, User: u}, nil
}

func (s *Service) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domuser.ErrInvalidCredential
	}
	return s.gateway.Register(ctx, email, password)
}

// CurrentUser re-reads the profile behind an authenticated session.
func (s *Service) CurrentUser(ctx context.Context, sess *Session) (*domuser.User, error) {
	if sess == nil || sess.IsGuest() {
		return nil, domuser.ErrUnauthorized
	}
	return s.gateway.CurrentUser(ctx, sess.UpstreamToken)
}

// Logout drops the identity but keeps the session id, so the guest cart of
// this browser is still there afterwards.
func (s *Service) Logout(sess *Session) (*Session, string, error) {
	guest := &Session{ID: sess.ID}
	if guest.ID == "" {
		guest.ID = uuid.NewString()
	}
	token, err := s.tokens.GenerateToken(guest)
	if err != nil {
		return nil, "", err
	}
	return guest, token, nil
}

func (s *Service) ParseToken(token string) (*Session, error) {
	return s.tokens.ParseToken(token)
}
