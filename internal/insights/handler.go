package insights

import (
	"context"
	"net/http"

	"github.com/frahmantamala/budgetwise/internal/transport"
	"github.com/frahmantamala/budgetwise/pkg/datex"
)

type ServiceAPI interface {
	Today() datex.Date
	Dashboard(ctx context.Context, userID int64) (*Dashboard, error)
	Insights(ctx context.Context, userID int64) (*Insights, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	d, err := h.Service.Dashboard(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d.ToResponse(h.Service.Today()))
}

func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.UserID(w, r)
	if !ok {
		return
	}

	in, err := h.Service.Insights(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, in.ToResponse())
}
