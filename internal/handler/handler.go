package handler

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/weeklypay/ledger-engine/internal/service"
	customError "github.com/weeklypay/ledger-engine/pkg/errors"
	"github.com/weeklypay/ledger-engine/pkg/response"
	"github.com/weeklypay/ledger-engine/pkg/validation"
)

type Handler struct {
	service   *service.LedgerService
	auth      *service.AuthService
	validator *validator.Validate
}

func NewHandler(svc *service.LedgerService, auth *service.AuthService) *Handler {
	return &Handler{
		service:   svc,
		auth:      auth,
		validator: validation.New(),
	}
}

// writeBusinessError maps engine outcomes onto HTTP statuses. Not-found and
// validation outcomes are expected, recoverable conditions.
func writeBusinessError(w http.ResponseWriter, err error) {
	code := customError.CodeOf(err)
	switch code {
	case customError.ErrCodeBorrowerNotFound, customError.ErrCodeInstallmentNotFound:
		response.ErrorWithCode(w, http.StatusNotFound, code, "resource not found", err)
	case customError.ErrCodeValidationFailed, customError.ErrCodeInvalidTransition,
		customError.ErrCodeInvalidReportWindow, customError.ErrCodeNoReportData:
		response.ErrorWithCode(w, http.StatusBadRequest, code, "request rejected", err)
	case customError.ErrCodeUnauthorized:
		response.ErrorWithCode(w, http.StatusUnauthorized, code, "unauthorized", err)
	default:
		response.ErrorWithCode(w, http.StatusInternalServerError, code, "internal error", err)
	}
}

// isSyncWarning reports whether the mutation applied but the snapshot write
// failed; handlers then answer success with a warning instead of an error.
func isSyncWarning(err error) bool {
	return customError.CodeOf(err) == customError.ErrCodeStorageSyncFailed
}

const syncWarningMessage = "saved in memory only: persisting the ledger snapshot failed"

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// RequireRole authenticates the request's bearer token and checks its role.
func (h *Handler) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Unauthorized(w, "missing bearer token")
				return
			}

			session, err := h.auth.ResolveSession(r.Context(), token)
			if err != nil {
				writeBusinessError(w, err)
				return
			}

			for _, role := range roles {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "insufficient role")
		})
	}
}
