package budget

import (
	"context"
	"net/http"

	"github.com/frahmantamala/budgetwise/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, userID int64) ([]WithSpent, error)
	Create(ctx context.Context, userID int64, dto CreateBudgetDTO) (WithSpent, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	budgets, err := h.Service.List(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		responses = append(responses, b.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, BudgetsResponse{Budgets: responses})
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateBudgetDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	created, err := h.Service.Create(r.Context(), userID, dto)
	if err != nil {
		h.Logger.Debug("CreateBudget: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created.ToResponse())
}
