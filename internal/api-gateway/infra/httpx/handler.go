package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/order-sagas/internal/api-gateway/core/ports"
	"github.com/jcmexdev/order-sagas/internal/pkg/interceptors/constants"
)

// Handler translates HTTP requests into orchestrator calls.
type Handler struct {
	orders ports.OrderService
}

func NewHandler(orders ports.OrderService) *Handler {
	return &Handler{orders: orders}
}

// CreateOrder places the order and answers 202 with the saga's initial
// acknowledgement. The outcome is polled through GetOrderByID.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if req.UserID == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id and items are required")
		return
	}

	lines := make([]entity.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_item", "product_id and a positive quantity are required")
			return
		}
		lines = append(lines, entity.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	requestID, _ := r.Context().Value(constants.ContextKeyRequestID).(string)
	slog.InfoContext(r.Context(), "placing order", "request_id", requestID, "user_id", req.UserID, "items", len(lines))

	ack, err := h.orders.PlaceOrder(r.Context(), req.UserID, lines)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, AckResponse{OrderID: ack.OrderID, Status: ack.Status})
}

// CancelOrder cancels on behalf of the user named by the X-User-ID header.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	userID := r.Header.Get(constants.HeaderXUserId)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id_required", "X-User-ID header is required")
		return
	}

	st, err := h.orders.CancelOrder(r.Context(), orderID, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AckResponse{OrderID: orderID, Status: st})
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(*order))
}

func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	orders, err := h.orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := OrderListResponse{Orders: make([]OrderResponse, len(orders)), Total: len(orders)}
	for i, o := range orders {
		res.Orders[i] = mapOrderToResponse(o)
	}
	writeJSON(w, http.StatusOK, res)
}

func mapOrderToResponse(order entity.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}
	return OrderResponse{
		ID:               order.ID,
		UserID:           order.UserID,
		Status:           order.Status,
		Total:            order.Total,
		Reason:           order.Reason,
		Items:            items,
		CompletedSteps:   order.CompletedSteps,
		CompensatedSteps: order.CompensatedSteps,
		Inconsistent:     order.Inconsistent,
		CreatedAt:        order.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, ports.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ports.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "orchestrator_unavailable", err.Error())
	default:
		slog.ErrorContext(r.Context(), "orchestrator call failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "orchestrator_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
