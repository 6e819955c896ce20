package payroll

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/payrollhq/payroll-management/internal"
	"github.com/payrollhq/payroll-management/internal/transport"
	"github.com/payrollhq/payroll-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")

	preview, err := h.Service.Preview(period)
	if err != nil {
		h.Logger.Error("Preview: service error", "error", err, "period", period)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, preview)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	approvedBy := internal.UserIDFromContext(r.Context())
	if approvedBy == "" {
		h.Logger.Error("Approve: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ApproveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Approve: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.Service.Approve(dto, approvedBy)
	if err != nil {
		h.Logger.Error("Approve: service error", "error", err, "period", dto.Period)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	history, err := h.Service.History(limit)
	if err != nil {
		h.Logger.Error("History: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, history)
}
