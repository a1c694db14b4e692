package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/studyhall/lesson-booking-service/internal/lesson"
	"github.com/studyhall/lesson-booking-service/internal/lesson/dto"
	"github.com/studyhall/lesson-booking-service/internal/lesson/usecase"
	"github.com/studyhall/lesson-booking-service/internal/model"
	"github.com/studyhall/lesson-booking-service/internal/pkg/httputil"
	"github.com/studyhall/lesson-booking-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type LessonHandler struct {
	uc     lesson.UseCase
	logger logger.ZapLogger
}

func NewLessonHandler(uc lesson.UseCase, log logger.ZapLogger) *LessonHandler {
	return &LessonHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *LessonHandler) RegisterRoutes(r chi.Router) {
	r.Route("/lessons", func(r chi.Router) {
		r.Get("/", h.ListLessons)
		r.Post("/", h.CreateLesson)
		r.Get("/{id}", h.GetLesson)
		r.Put("/{id}/spaces", h.UpdateSpaces)
		r.Get("/{id}/movements", h.ListMovements)
	})
}

type createLessonRequest struct {
	Subject  string  `json:"subject"`
	Location string  `json:"location"`
	Price    float64 `json:"price"`
	Spaces   int     `json:"spaces"`
	Icon     string  `json:"icon"`
	ImageURL string  `json:"image_url"`
}

func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req createLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Subject == "" || req.Location == "" {
		httputil.RespondError(w, http.StatusBadRequest, "subject and location are required")
		return
	}
	if req.Price < 0 {
		httputil.RespondError(w, http.StatusBadRequest, "price cannot be negative")
		return
	}

	l, err := h.uc.CreateLesson(r.Context(), &dto.CreateLessonInput{
		Subject:  req.Subject,
		Location: req.Location,
		Price:    req.Price,
		Spaces:   req.Spaces,
		Icon:     req.Icon,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrNegativeSpaces) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create lesson", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "failed to create lesson")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, l)
}

func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	l, err := h.uc.GetLesson(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get lesson", zap.Int64("lesson_id", id), zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "failed to get lesson")
		return
	}
	if l == nil {
		httputil.RespondError(w, http.StatusNotFound, "lesson not found")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, l)
}

type listLessonsResponse struct {
	Lessons []model.Lesson `json:"lessons"`
	Total   int            `json:"total"`
}

func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := &dto.LessonFilters{
		SearchQuery: q.Get("search"),
		Location:    q.Get("location"),
		SortBy:      q.Get("sort"),
		SortDir:     q.Get("dir"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if pageSize, err := strconv.Atoi(q.Get("page_size")); err == nil {
		filters.PageSize = pageSize
	}

	lessons, total, err := h.uc.ListLessons(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list lessons", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "failed to list lessons")
		return
	}
	if lessons == nil {
		lessons = []model.Lesson{}
	}

	httputil.RespondJSON(w, http.StatusOK, listLessonsResponse{Lessons: lessons, Total: total})
}

type updateSpacesRequest struct {
	Spaces int    `json:"spaces"`
	Reason string `json:"reason"`
}

func (h *LessonHandler) UpdateSpaces(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	var req updateSpacesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "capacity sync"
	}

	l, err := h.uc.UpdateSpaces(r.Context(), &dto.UpdateSpacesInput{
		LessonID:      id,
		Spaces:        req.Spaces,
		Reason:        reason,
		ReferenceType: "client_sync",
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrLessonNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrNegativeSpaces):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, usecase.ErrCapacityLockBusy):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to update spaces", zap.Int64("lesson_id", id), zap.Error(err))
			httputil.RespondError(w, http.StatusInternalServerError, "failed to update spaces")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, l)
}

type listMovementsResponse struct {
	Movements []model.SpaceMovement `json:"movements"`
	Total     int                   `json:"total"`
}

func (h *LessonHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid lesson id")
		return
	}

	q := r.URL.Query()
	filters := &dto.MovementFilters{
		LessonID:     id,
		MovementType: q.Get("type"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if pageSize, err := strconv.Atoi(q.Get("page_size")); err == nil {
		filters.PageSize = pageSize
	}

	movements, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list movements", zap.Int64("lesson_id", id), zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "failed to list movements")
		return
	}
	if movements == nil {
		movements = []model.SpaceMovement{}
	}

	httputil.RespondJSON(w, http.StatusOK, listMovementsResponse{Movements: movements, Total: total})
}
