package handler

import (
	"encoding/json"
	"net/http"

	"github.com/weeklypay/ledger-engine/pkg/response"
)

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

type changePasswordRequest struct {
	Phone           string `json:"phone" validate:"required"`
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Login handles POST /api/v1/auth/login. Admin logins verify phone plus
// password; customer logins only require the phone to own a loan record.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid login request", err)
		return
	}

	var (
		session interface{}
		err     error
	)
	if req.Admin {
		session, err = h.auth.LoginAdmin(r.Context(), req.Phone, req.Password)
	} else {
		session, err = h.auth.LoginCustomer(r.Context(), req.Phone)
	}
	if err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, session)
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		response.Unauthorized(w, "missing bearer token")
		return
	}
	if err := h.auth.Logout(r.Context(), token); err != nil {
		response.InternalServerError(w, "logout failed", err)
		return
	}
	response.Success(w, nil)
}

// ChangePassword handles POST /api/v1/auth/password for the admin account.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid password change request", err)
		return
	}

	if err := h.auth.ChangeAdminPassword(r.Context(), req.Phone, req.CurrentPassword, req.NewPassword); err != nil {
		writeBusinessError(w, err)
		return
	}
	response.Success(w, nil)
}
