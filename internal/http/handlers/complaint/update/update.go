// Package update реализует HTTP-обработчик изменения статуса жалобы.
//
// Администратор выставляет новый статус и описание принятых мер,
// остальные поля жалобы не изменяются.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/grigormateeev/complaints-tracker/internal/http/middlewarectx"
	"github.com/grigormateeev/complaints-tracker/internal/http/response"
	"github.com/grigormateeev/complaints-tracker/internal/lib/sl"
	"github.com/grigormateeev/complaints-tracker/internal/models"
	complaintservice "github.com/grigormateeev/complaints-tracker/internal/services/complaint"
	"github.com/grigormateeev/complaints-tracker/internal/storage/repository"
)

// Request — входные данные для изменения статуса жалобы.
type Request struct {
	Status      string `json:"status" validate:"required"` // Новый статус, одно из перечисленных значений
	ActionTaken string `json:"actionTaken"`                // Принятые меры, может быть пустым
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики изменения статуса жалобы.
type Service interface {
	UpdateDisposition(ctx context.Context, identity models.Identity, id int, status models.Status, actionTaken string) (*models.Complaint, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить статус жалобы
// @Description Выставляет статус и принятые меры по жалобе. Только для администратора.
// @Tags Complaints
// @Accept  json
// @Produce  json
// @Param id path int true "Идентификатор жалобы"
// @Param request body Request true "Новый статус и принятые меры"
// @Success 200 {object} map[string]any "Обновлённая жалоба"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Жалоба не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /complaints/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.complaint.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		log.Error("unknown status", slog.String("status", req.Status))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("status must be one of: Pending, In Progress, Resolved"))
		return
	}

	identity, ok := middlewarectx.Identity(r.Context())
	if !ok {
		log.Error("identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	updated, err := h.service.UpdateDisposition(r.Context(), identity, id, status, req.ActionTaken)
	if err != nil {
		switch {
		case errors.Is(err, complaintservice.ErrForbidden):
			log.Error("access denied", slog.String("username", identity.Username))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied, admin only"))
		case errors.Is(err, repository.ErrComplaintNotFound):
			log.Error("complaint not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("complaint not found"))
		default:
			log.Error("failed to update disposition", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update complaint"))
		}
		return
	}

	log.Info("disposition updated", slog.Int("id", updated.ID), slog.String("status", string(updated.Status)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"complaint": updated,
	}))
}
