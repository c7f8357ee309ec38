package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/service"
)

// BudgetHandler handles HTTP requests for budgets.
type BudgetHandler struct {
	base
	svc *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(svc *service.BudgetService, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{base: newBase(logger), svc: svc}
}

// List handles GET /budgets?month=&year=.
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	statuses, err := h.svc.List(r.Context(), userID, query.Get("month"), query.Get("year"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[dto.BudgetUsageResponse]{Data: dto.ToBudgetUsageResponses(statuses)})
}

// Upsert handles POST /budgets.
func (h *BudgetHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.BudgetRequest
	if !h.decode(w, r, &req) {
		return
	}

	budget, err := h.svc.Upsert(r.Context(), userID, req.Input())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("budget_saved",
		"budget_id", budget.ID,
		"user_id", userID,
		"category", budget.Category,
	)

	writeJSON(w, http.StatusCreated, dto.ToBudgetResponse(budget))
}

// Delete handles DELETE /budgets/{id}.
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("budget_deleted", "budget_id", id, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Budget deleted"})
}
