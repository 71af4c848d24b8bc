// Package listall возвращает все жалобы. Операция доступна только администратору.
package listall

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/grigormateeev/complaints-tracker/internal/http/middlewarectx"
	"github.com/grigormateeev/complaints-tracker/internal/http/response"
	"github.com/grigormateeev/complaints-tracker/internal/lib/sl"
	"github.com/grigormateeev/complaints-tracker/internal/models"
	complaintservice "github.com/grigormateeev/complaints-tracker/internal/services/complaint"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки всех жалоб.
type Service interface {
	ListAll(ctx context.Context, identity models.Identity) ([]*models.Complaint, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.complaint.listall"

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

	res, err := h.service.ListAll(r.Context(), identity)
	if err != nil {
		if errors.Is(err, complaintservice.ErrForbidden) {
			log.Error("access denied", slog.String("username", identity.Username))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied, admin only"))
			return
		}
		log.Error("failed to list complaints", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list complaints"))
		return
	}

	log.Info("all complaints listed", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":      len(res),
		"complaints": res,
	}))
}
