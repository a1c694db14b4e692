package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/order"
	"github.com/studyhall/lesson-booking-service/internal/order/dto"
	"github.com/studyhall/lesson-booking-service/internal/order/usecase"
	"github.com/studyhall/lesson-booking-service/internal/pkg/httputil"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.SubmitOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
	})
}

type submitOrderRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Lines []struct {
		LessonID int64 `json:"lesson_id"`
		Quantity int   `json:"quantity"`
	} `json:"lines"`
}

func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := &dto.SubmitOrderInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, dto.SubmitOrderLine{
			LessonID: line.LessonID,
			Quantity: line.Quantity,
		})
	}

	o, err := h.uc.SubmitOrder(r.Context(), input)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.As(err, &vErr):
			httputil.RespondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error": "invalid contact details",
				"fields": map[string]string{
					"name":  vErr.Fields.NameError,
					"phone": vErr.Fields.PhoneError,
					"email": vErr.Fields.EmailError,
				},
			})
		case errors.Is(err, usecase.ErrEmptyOrder), errors.Is(err, usecase.ErrInvalidQuantity):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, usecase.ErrUnknownLesson):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrInsufficientSpaces):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to submit order", zap.Error(err))
			httputil.RespondError(w, http.StatusInternalServerError, "failed to submit order")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, err := h.uc.GetOrder(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", zap.String("order_id", id), zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	if o == nil {
		httputil.RespondError(w, http.StatusNotFound, "order not found")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, o)
}

type listOrdersResponse struct {
	Orders []model.Order `json:"orders"`
	Total  int           `json:"total"`
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.OrderFilters{
		Email: q.Get("email"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if pageSize, err := strconv.Atoi(q.Get("page_size")); err == nil {
		filters.PageSize = pageSize
	}

	orders, total, err := h.uc.ListOrders(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	httputil.RespondJSON(w, http.StatusOK, listOrdersResponse{Orders: orders, Total: total})
}
