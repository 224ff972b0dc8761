package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/weeklypay/ledger-engine/internal/domain"
	"github.com/weeklypay/ledger-engine/internal/ledger"
	customError "github.com/weeklypay/ledger-engine/pkg/errors"
	"github.com/weeklypay/ledger-engine/pkg/response"
)

// CreateBorrower handles POST /api/v1/borrowers
func (h *Handler) CreateBorrower(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBorrowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeBusinessError(w, customError.WrapValidationFailed(err))
		return
	}

	borrower, err := h.service.AddBorrower(r.Context(), &req)
	if err != nil && !isSyncWarning(err) {
		writeBusinessError(w, err)
		return
	}
	if isSyncWarning(err) {
		response.SuccessWithWarning(w, domain.NewBorrowerResponse(borrower), syncWarningMessage)
		return
	}
	response.Created(w, domain.NewBorrowerResponse(borrower))
}

// ListBorrowers handles GET /api/v1/borrowers. A q parameter runs the
// free-text search; otherwise status/name/phone combine as a filter. With no
// parameters the full ledger comes back in insertion order.
func (h *Handler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	if params.Has("q") {
		response.Success(w, h.service.Search(params.Get("q")))
		return
	}

	response.Success(w, h.service.Filter(ledger.Filter{
		Status: params.Get("status"),
		Name:   params.Get("name"),
		Phone:  params.Get("phone"),
	}))
}

// DeleteBorrower handles DELETE /api/v1/borrowers/{borrowerId}
func (h *Handler) DeleteBorrower(w http.ResponseWriter, r *http.Request) {
	borrowerID, ok := pathUUID(w, r, "borrowerId")
	if !ok {
		return
	}

	err := h.service.DeleteBorrower(r.Context(), borrowerID)
	if err != nil && !isSyncWarning(err) {
		writeBusinessError(w, err)
		return
	}
	if isSyncWarning(err) {
		response.SuccessWithWarning(w, nil, syncWarningMessage)
		return
	}
	response.Success(w, nil)
}

// UpdateInstallmentStatus handles
// PUT /api/v1/borrowers/{borrowerId}/installments/{installmentId}/status
func (h *Handler) UpdateInstallmentStatus(w http.ResponseWriter, r *http.Request) {
	borrowerID, ok := pathUUID(w, r, "borrowerId")
	if !ok {
		return
	}
	installmentID, ok := pathUUID(w, r, "installmentId")
	if !ok {
		return
	}

	var req domain.UpdateInstallmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeBusinessError(w, customError.WrapValidationFailed(err))
		return
	}

	inst, err := h.service.SetInstallmentStatus(r.Context(), borrowerID, installmentID, req.Status)
	if err != nil && !isSyncWarning(err) {
		writeBusinessError(w, err)
		return
	}
	if isSyncWarning(err) {
		response.SuccessWithWarning(w, inst, syncWarningMessage)
		return
	}
	response.Success(w, inst)
}

// DeleteInstallment handles
// DELETE /api/v1/borrowers/{borrowerId}/installments/{installmentId}
func (h *Handler) DeleteInstallment(w http.ResponseWriter, r *http.Request) {
	borrowerID, ok := pathUUID(w, r, "borrowerId")
	if !ok {
		return
	}
	installmentID, ok := pathUUID(w, r, "installmentId")
	if !ok {
		return
	}

	err := h.service.DeleteInstallment(r.Context(), borrowerID, installmentID)
	if err != nil && !isSyncWarning(err) {
		writeBusinessError(w, err)
		return
	}
	if isSyncWarning(err) {
		response.SuccessWithWarning(w, nil, syncWarningMessage)
		return
	}
	response.Success(w, nil)
}

// CustomerLoans handles GET /api/v1/customers/{phone}/loans: the self-service
// view aggregating every loan record owned by one phone. An empty list is a
// valid answer, not an error.
func (h *Handler) CustomerLoans(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]
	response.Success(w, h.service.LoansByPhone(phone))
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}
