package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domuser "example.com/phonestore/internal/domain/user"
)

type userDTO struct {
	UserID string   `json:"userId"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

func (d userDTO) toDomain() *domuser.User {
	return &domuser.User{
		ID:    d.UserID,
		Email: d.Email,
		Roles: domuser.ParseRoles(d.Roles),
	}
}

type credentialsDTO struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

// AuthGateway implements the account endpoints used at login.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

// Login returns the opaque token issued by the catalog API. The token may come
// back as {"token":...}, {"accessToken":...} or as a bare JSON string.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (string, error) {
	req, err := g.client.jsonRequest(http.MethodPost, "login", credentialsDTO{Email: email, Password: password}, nil)
	if err != nil {
		return "", err
	}

	var raw json.RawMessage
	if err := g.client.do(ctx, req, &raw); err != nil {
		var upErr *Error
		if errors.As(err, &upErr) && upErr.Status == http.StatusBadRequest {
			return "", domuser.ErrInvalidCredential
		}
		if errors.Is(err, domuser.ErrUnauthorized) {
			return "", domuser.ErrInvalidCredential
		}
		return "", err
	}

	token := extractToken(raw)
	if token == "" {
		return "", domuser.ErrInvalidCredential
	}
	return token, nil
}

func extractToken(raw json.RawMessage) string {
	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return strings.TrimSpace(bare)
	}
	var body struct {
		Token       string `json:"token"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Token != "" {
		return body.Token
	}
	return body.AccessToken
}

func (g *AuthGateway) CurrentUser(ctx context.Context, token string) (*domuser.User, error) {
	var dto userDTO
	req := request{method: http.MethodGet, path: "api/Register/current-user", token: token}
	if err := g.client.do(ctx, req, &dto); err != nil {
		return nil, err
	}
	if dto.UserID == "" {
		return nil, domuser.ErrUnauthorized
	}
	return dto.toDomain(), nil
}

func (g *AuthGateway) Register(ctx context.Context, email, password string) error {
	req, err := g.client.jsonRequest(http.MethodPost, "api/Register/register", credentialsDTO{
		Email:    email,
		Password: password,
		Roles:    []string{},
	}, nil)
	if err != nil {
		return err
	}

	err = g.client.do(ctx, req, nil)
	var upErr *Error
	if errors.As(err, &upErr) && upErr.Status == http.StatusConflict {
		return domuser.ErrEmailAlreadyUsed
	}
	return err
}

// UserRepository implements the admin user endpoints.
type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) List(ctx context.Context, page, pageSize int) (*domuser.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var body struct {
		Items      []userDTO `json:"items"`
		TotalPages int       `json:"totalPages"`
	}
	req := request{method: http.MethodGet, path: "api/Register/all-users-with-roles?" + q.Encode()}
	if err := r.client.do(ctx, req, &body); err != nil {
		return nil, err
	}

	items := make([]*domuser.User, 0, len(body.Items))
	for _, d := range body.Items {
		items = append(items, d.toDomain())
	}
	return &domuser.Page{Items: items, Page: page, PageSize: pageSize, TotalPages: body.TotalPages}, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	req := request{
		method:   http.MethodDelete,
		path:     "api/Register/delete-user/" + url.PathEscape(id),
		notFound: domuser.ErrUserNotFound,
	}
	return r.client.do(ctx, req, nil)
}

func (r *UserRepository) ChangeRole(ctx context.Context, id string, role domuser.RoleCode) error {
	req, err := r.client.jsonRequest(http.MethodPut, "api/Register/change-role/"+url.PathEscape(id),
		map[string]string{"role": string(role)}, domuser.ErrUserNotFound)
	if err != nil {
		return err
	}
	return r.client.do(ctx, req, nil)
}
