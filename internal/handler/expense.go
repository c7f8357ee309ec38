package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/service"
)

// ExpenseHandler handles HTTP requests for expenses.
type ExpenseHandler struct {
	base
	svc *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(svc *service.ExpenseService, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{base: newBase(logger), svc: svc}
}

// List handles GET /expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	expenses, err := h.svc.List(r.Context(), userID, service.ExpenseQuery{
		Category:  query.Get("category"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Limit:     query.Get("limit"),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[dto.ExpenseResponse]{Data: dto.ToExpenseResponses(expenses)})
}

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}

	expense, err := h.svc.Create(r.Context(), userID, req.Input())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("expense_created", "expense_id", expense.ID, "user_id", userID)

	writeJSON(w, http.StatusCreated, dto.ToExpenseResponse(expense))
}

// Update handles PUT /expenses/{id}.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}

	expense, err := h.svc.Update(r.Context(), userID, chi.URLParam(r, "id"), req.Input())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("expense_updated", "expense_id", expense.ID, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.ToExpenseResponse(expense))
}

// Delete handles DELETE /expenses/{id}.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("expense_deleted", "expense_id", id, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Expense deleted"})
}
