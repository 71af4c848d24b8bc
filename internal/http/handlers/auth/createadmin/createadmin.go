// Package createadmin реализует HTTP-обработчик создания новых администраторов.
//
// Операция доступна только вызывающему с ролью admin.
package createadmin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/grigormateeev/complaints-tracker/internal/http/middlewarectx"
	"github.com/grigormateeev/complaints-tracker/internal/http/response"
	"github.com/grigormateeev/complaints-tracker/internal/lib/sl"
	"github.com/grigormateeev/complaints-tracker/internal/models"
	"github.com/grigormateeev/complaints-tracker/internal/storage/repository"
)

// Request — входные данные для создания администратора.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания администратора.
type Service interface {
	CreateAdmin(ctx context.Context, username, password string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.createadmin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.Identity(r.Context())
	if !ok {
		log.Error("identity not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	switch identity.Role {
	case models.RoleAdmin:
	case models.RoleUser:
		log.Error("access denied", slog.String("username", identity.Username))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied, admin only"))
		return
	default:
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access denied, admin only"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	if err := h.service.CreateAdmin(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			log.Error("username already taken", slog.String("username", req.Username))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("username already taken"))
			return
		}
		log.Error("failed to create admin", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create admin"))
		return
	}

	log.Info("admin created", slog.String("username", req.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"username": req.Username,
		"message":  "admin created successfully",
	}))
}
