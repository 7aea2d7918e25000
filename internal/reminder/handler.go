package reminder

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/budgetwise/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID int64, dto CreateReminderDTO) (*Reminder, error)
	List(ctx context.Context, userID int64, includeDismissed bool) ([]*Reminder, error)
	Dismiss(ctx context.Context, userID, id int64) (*Reminder, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) GetReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	includeDismissed, _ := strconv.ParseBool(r.URL.Query().Get("include_dismissed"))
	reminders, err := h.Service.List(r.Context(), userID, includeDismissed)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	responses := make([]ReminderResponse, 0, len(reminders))
	for _, rem := range reminders {
		responses = append(responses, rem.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, RemindersResponse{Reminders: responses, Count: len(responses)})
}

func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	var dto CreateReminderDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleError(w, appErr)
		return
	}

	created, err := h.Service.Create(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created.ToResponse())
}

func (h *Handler) DismissReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	dismissed, err := h.Service.Dismiss(r.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dismissed.ToResponse())
}
