package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fintrack/fintrack/internal/handler/dto"
	"github.com/fintrack/fintrack/internal/service"
)

// IncomeHandler handles HTTP requests for income.
type IncomeHandler struct {
	base
	svc *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(svc *service.IncomeService, logger *slog.Logger) *IncomeHandler {
	return &IncomeHandler{base: newBase(logger), svc: svc}
}

// List handles GET /income.
func (h *IncomeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	incomes, err := h.svc.List(r.Context(), userID, service.IncomeQuery{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Limit:     query.Get("limit"),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[dto.IncomeResponse]{Data: dto.ToIncomeResponses(incomes)})
}

// Create handles POST /income.
func (h *IncomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.IncomeRequest
	if !h.decode(w, r, &req) {
		return
	}

	income, err := h.svc.Create(r.Context(), userID, req.Input())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("income_created", "income_id", income.ID, "user_id", userID)

	writeJSON(w, http.StatusCreated, dto.ToIncomeResponse(income))
}

// Update handles PUT /income/{id}.
func (h *IncomeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req dto.IncomeRequest
	if !h.decode(w, r, &req) {
		return
	}

	income, err := h.svc.Update(r.Context(), userID, chi.URLParam(r, "id"), req.Input())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("income_updated", "income_id", income.ID, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.ToIncomeResponse(income))
}

// Delete handles DELETE /income/{id}.
func (h *IncomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("income_deleted", "income_id", id, "user_id", userID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Income deleted"})
}
