// Package listown возвращает жалобы текущего пользователя от новых к старым.
package listown

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/grigormateeev/complaints-tracker/internal/http/middlewarectx"
	"github.com/grigormateeev/complaints-tracker/internal/http/response"
	"github.com/grigormateeev/complaints-tracker/internal/lib/sl"
	"github.com/grigormateeev/complaints-tracker/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки собственных жалоб.
type Service interface {
	ListOwn(ctx context.Context, identity models.Identity) ([]*models.Complaint, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.complaint.listown"

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

	res, err := h.service.ListOwn(r.Context(), identity)
	if err != nil {
		log.Error("failed to list own complaints", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list complaints"))
		return
	}

	log.Info("own complaints listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":      len(res),
		"complaints": res,
	}))
}
