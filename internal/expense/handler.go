package expense

import (
	"context"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/budgetwise/internal"
	"github.com/frahmantamala/budgetwise/internal/transport"
	"github.com/frahmantamala/budgetwise/pkg/datex"
	"github.com/frahmantamala/budgetwise/pkg/money"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error)
	QueryExpenses(ctx context.Context, userID int64, filter Filter) ([]*Expense, error)
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateExpenseDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	expense, err := h.Service.CreateExpense(r.Context(), userID, dto)
	if err != nil {
		h.Logger.Debug("CreateExpense: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, expense.ToResponse())
}

func (h *Handler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	filter, appErr := parseFilter(r)
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	expenses, err := h.Service.QueryExpenses(r.Context(), userID, filter)
	if err != nil {
		h.Logger.Debug("GetExpenses: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, e.ToResponse())
	}

	h.WriteJSON(w, http.StatusOK, ExpensesResponse{
		Expenses:    responses,
		Count:       len(responses),
		TotalAmount: money.Round(Total(expenses)),
	})
}

func parseFilter(r *http.Request) (Filter, *errors.AppError) {
	var filter Filter
	q := r.URL.Query()

	if v := q.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return filter, errors.NewValidationError("Invalid category_id", errors.ErrCodeInvalidCategory)
		}
		filter.CategoryID = id
	}

	if v := q.Get("start_date"); v != "" {
		d, err := datex.Parse(v)
		if err != nil {
			return filter, errors.NewValidationError("Invalid start_date format. Use YYYY-MM-DD", errors.ErrCodeInvalidDate)
		}
		filter.StartDate = d
	}

	if v := q.Get("end_date"); v != "" {
		d, err := datex.Parse(v)
		if err != nil {
			return filter, errors.NewValidationError("Invalid end_date format. Use YYYY-MM-DD", errors.ErrCodeInvalidDate)
		}
		filter.EndDate = d
	}

	// non-positive limits mean "no limit"
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.NewValidationError("Invalid limit", errors.ErrCodeValidationFailed)
		}
		if limit > 0 {
			filter.Limit = limit
		}
	}

	return filter, nil
}
