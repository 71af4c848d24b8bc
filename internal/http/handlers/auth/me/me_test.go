package me

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/grigormateeev/complaints-tracker/internal/http/middlewarectx"
	"github.com/grigormateeev/complaints-tracker/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestMeHandler_ServeHTTP(t *testing.T) {
	handler := New(newNoopLogger())

	t.Run("возвращает идентичность из контекста", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/user", nil)
		ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
		ctx = context.WithValue(ctx, middlewarectx.User, "testuser")
		ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-123")
		ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleUser)
		req = req.WithContext(ctx)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"testuser"`)
		assert.Contains(t, w.Body.String(), `"role":"user"`)
		assert.Contains(t, w.Body.String(), `"user_uid":"uid-123"`)
	})

	t.Run("отсутствует авторизация", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/user", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"unauthorized"`)
	})
}
