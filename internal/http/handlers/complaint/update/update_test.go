package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/grigormateeev/complaints-tracker/internal/http/middlewarectx"
	"github.com/grigormateeev/complaints-tracker/internal/models"
	complaintservice "github.com/grigormateeev/complaints-tracker/internal/services/complaint"
	"github.com/grigormateeev/complaints-tracker/internal/storage/repository"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateDisposition(ctx context.Context, identity models.Identity, id int, status models.Status, actionTaken string) (*models.Complaint, error) {
	args := m.Called(ctx, identity, id, status, actionTaken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func withIdentity(ctx context.Context, username string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, middlewarectx.User, username)
	ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-123")
	ctx = context.WithValue(ctx, middlewarectx.Role, role)
	return ctx
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	admin := models.Identity{Username: "admin", UserUID: "uid-123", Role: models.RoleAdmin}

	tests := []struct {
		name           string
		url            string
		requestBody    interface{}
		username       string
		role           models.Role
		noIdentity     bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное изменение статуса",
			url:  "/complaints/5",
			requestBody: Request{
				Status:      "Resolved",
				ActionTaken: "store fined",
			},
			username: "admin",
			role:     models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("UpdateDisposition", mock.Anything, admin, 5, models.StatusResolved, "store fined").
					Return(&models.Complaint{
						ID:          5,
						Username:    "testuser",
						Status:      models.StatusResolved,
						ActionTaken: "store fined",
					}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"Resolved"`,
		},
		{
			name:           "некорректный JSON",
			url:            "/complaints/5",
			requestBody:    "not a json",
			username:       "admin",
			role:           models.RoleAdmin,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "ошибка валидации - пустой статус",
			url:            "/complaints/5",
			requestBody:    Request{},
			username:       "admin",
			role:           models.RoleAdmin,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field Status is a required field",
		},
		{
			name: "неизвестный статус",
			url:  "/complaints/5",
			requestBody: Request{
				Status: "Done",
			},
			username:       "admin",
			role:           models.RoleAdmin,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "status must be one of: Pending, In Progress, Resolved",
		},
		{
			name: "отсутствует авторизация",
			url:  "/complaints/5",
			requestBody: Request{
				Status: "Resolved",
			},
			noIdentity:     true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name: "некорректный id в url",
			url:  "/complaints/abc",
			requestBody: Request{
				Status: "Resolved",
			},
			username:       "admin",
			role:           models.RoleAdmin,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode id from url"`,
		},
		{
			name: "не администратор",
			url:  "/complaints/5",
			requestBody: Request{
				Status: "Resolved",
			},
			username: "testuser",
			role:     models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("UpdateDisposition", mock.Anything, mock.Anything, 5, models.StatusResolved, "").
					Return(nil, complaintservice.ErrForbidden).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"access denied, admin only"`,
		},
		{
			name: "жалоба не найдена",
			url:  "/complaints/99",
			requestBody: Request{
				Status: "In Progress",
			},
			username: "admin",
			role:     models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("UpdateDisposition", mock.Anything, admin, 99, models.StatusInProgress, "").
					Return(nil, repository.ErrComplaintNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"complaint not found"`,
		},
		{
			name: "ошибка сервиса",
			url:  "/complaints/5",
			requestBody: Request{
				Status: "Resolved",
			},
			username: "admin",
			role:     models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("UpdateDisposition", mock.Anything, admin, 5, models.StatusResolved, "").
					Return(nil, errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update complaint"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPut, tt.url, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			if !tt.noIdentity {
				ctx = withIdentity(ctx, tt.username, tt.role)
			}
			req = req.WithContext(ctx)

			// Устанавливаем URL параметр id для chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", strings.TrimPrefix(tt.url, "/complaints/"))
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
