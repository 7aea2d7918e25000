package bill

import (
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/budgetwise/internal/transport"
	"github.com/frahmantamala/budgetwise/pkg/datex"
)

type ServiceAPI interface {
	Today() datex.Date
	Create(ctx context.Context, userID int64, dto CreateBillDTO) (*Bill, error)
	Get(ctx context.Context, userID, id int64) (*Bill, error)
	List(ctx context.Context, userID int64, status, category string) ([]*Bill, error)
	Update(ctx context.Context, userID, id int64, dto UpdateBillDTO) (*Bill, error)
	Delete(ctx context.Context, userID, id int64) error
	Pay(ctx context.Context, userID, id int64, paidDate datex.Date) (*PayResult, error)
	ListPayments(ctx context.Context, userID int64) ([]*Payment, PaymentSummary, error)
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

func (h *Handler) GetBills(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	bills, err := h.Service.List(r.Context(), userID, q.Get("status"), q.Get("category"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	today := h.Service.Today()
	responses := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		responses = append(responses, b.ToResponse(today))
	}
	h.WriteJSON(w, http.StatusOK, BillsResponse{Bills: responses, Count: len(responses)})
}

func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateBillDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	created, err := h.Service.Create(r.Context(), userID, dto)
	if err != nil {
		h.Logger.Debug("CreateBill: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created.ToResponse(h.Service.Today()))
}

func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, b.ToResponse(h.Service.Today()))
}

func (h *Handler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto UpdateBillDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	updated, err := h.Service.Update(r.Context(), userID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated.ToResponse(h.Service.Today()))
}

func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Bill deleted successfully"})
}

func (h *Handler) PayBill(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	// the body is optional; an empty one means "paid today"
	var dto PayBillDTO
	if appErr := h.DecodeOptionalJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	today := h.Service.Today()
	paidDate, appErr := dto.ResolvePaidDate(today)
	if appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	result, err := h.Service.Pay(r.Context(), userID, id, paidDate)
	if err != nil {
		h.Logger.Debug("PayBill: service error", "error", err, "bill_id", id, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	resp := PayResponse{
		Message:       "Bill paid successfully",
		PaidBill:      result.PaidBill.ToResponse(today),
		PaymentRecord: result.Payment.ToResponse(),
	}
	if result.NextBill != nil {
		next := result.NextBill.ToResponse(today)
		resp.NextBill = &next
		resp.Message = fmt.Sprintf("Bill paid successfully and next %s bill created", result.PaidBill.RecurringType)
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetPayments(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	payments, summary, err := h.Service.ListPayments(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, p.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, PaymentsResponse{
		Payments: responses,
		Summary:  summary.ToResponse(),
	})
}
