package http

import (
	"net/http"

	authuc "example.com/phonestore/internal/usecase/auth"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var sessionID string
	if sess := getSession(r.Context()); sess != nil {
		sessionID = sess.ID
	}

	result, err := a.authSvc.Login(r.Context(), authuc.LoginInput{
		SessionID: sessionID,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	a.setSessionToken(w, result.Token)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  mapUser(result.User),
	})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.authSvc.Register(r.Context(), req.Email, req.Password); err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := getSession(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	_, token, err := a.authSvc.Logout(sess)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	a.setSessionToken(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := a.authSvc.CurrentUser(r.Context(), getSession(r.Context()))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(u))
}
