package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grigormateeev/complaints-tracker/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "successful register user",
			user: models.User{
				UID:          uuid.New().String(),
				Username:     "testuser",
				PasswordHash: "hashedpassword",
				Role:         models.RoleUser,
			},
			setup: func(_ *testing.T, _ *TestDataFactory) {},
		},
		{
			name: "duplicate username",
			user: models.User{
				UID:          uuid.New().String(),
				Username:     "testuser",
				PasswordHash: "hashedpassword",
				Role:         models.RoleUser,
			},
			wantErr: ErrUserExists,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, uuid.New().String(), "testuser", "hashedpassword", "user")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			gotUID, err := storage.RegisterUser(context.Background(), tt.user)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.user.UID, gotUID)

				verification := NewTestVerification(storage)
				verification.VerifyUserExists(t, gotUID)
			}
		})
	}
}

func TestStorage_GetUserByUsername(t *testing.T) {
	userUID := uuid.New().String()

	tests := []struct {
		name     string
		username string
		want     *models.User
		wantErr  error
		setup    func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:     "successful get user",
			username: "testuser",
			want: &models.User{
				UID:          userUID,
				Username:     "testuser",
				PasswordHash: "hashedpassword",
				Role:         models.RoleAdmin,
			},
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, userUID, "testuser", "hashedpassword", "admin")
			},
		},
		{
			name:     "user not found",
			username: "nonexistent",
			wantErr:  ErrUserNotFound,
			setup:    func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.GetUserByUsername(context.Background(), tt.username)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.want.UID, got.UID)
				assert.Equal(t, tt.want.Username, got.Username)
				assert.Equal(t, tt.want.PasswordHash, got.PasswordHash)
				assert.Equal(t, tt.want.Role, got.Role)
				assert.False(t, got.CreatedAt.IsZero())
			}
		})
	}
}

func TestStorage_CreateComplaint(t *testing.T) {
	userUID := uuid.New().String()

	entry := models.Complaint{
		ShopName:    "Продукты 24",
		Username:    "testuser",
		UserUID:     userUID,
		Category:    "expired goods",
		Description: "просроченная молочка",
		Location:    models.Location{Lat: 55.7558, Lng: 37.6173},
		Status:      models.StatusPending,
		ActionTaken: "",
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, userUID, "testuser", "hashedpassword", "user")

	got, err := storage.CreateComplaint(context.Background(), entry)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 1, got.ID)
	assert.Equal(t, entry.ShopName, got.ShopName)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	verification := NewTestVerification(storage)
	verification.VerifyComplaintExists(t, got.ID)
}

func TestStorage_ReadComplaint(t *testing.T) {
	userUID := uuid.New().String()
	createdAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      int
		want    *models.Complaint
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name: "successful read existing complaint",
			want: &models.Complaint{
				ShopName:    "Продукты 24",
				Username:    "testuser",
				UserUID:     userUID,
				Category:    "overcharge",
				Description: "цена выше ценника",
				Location:    models.Location{Lat: 55.7558, Lng: 37.6173},
				Status:      models.StatusPending,
				ActionTaken: "",
			},
			setup: func(t *testing.T, factory *TestDataFactory) int {
				factory.CreateUser(t, userUID, "testuser", "hashedpassword", "user")
				return factory.CreateComplaint(t, "Продукты 24", "testuser", userUID,
					"overcharge", "цена выше ценника", 55.7558, 37.6173, "Pending", "", createdAt)
			},
		},
		{
			name:    "complaint not found",
			wantErr: ErrComplaintNotFound,
			setup: func(_ *testing.T, _ *TestDataFactory) int {
				return 9999
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			id := tt.setup(t, factory)

			got, err := storage.ReadComplaint(context.Background(), id)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, id, got.ID)
				assert.Equal(t, tt.want.ShopName, got.ShopName)
				assert.Equal(t, tt.want.Username, got.Username)
				assert.Equal(t, tt.want.UserUID, got.UserUID)
				assert.Equal(t, tt.want.Category, got.Category)
				assert.Equal(t, tt.want.Description, got.Description)
				assert.Equal(t, tt.want.Location, got.Location)
				assert.Equal(t, tt.want.Status, got.Status)
				assert.Equal(t, tt.want.ActionTaken, got.ActionTaken)
			}
		})
	}
}

func TestStorage_ListComplaintsByUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID1 := uuid.New().String()
	userUID2 := uuid.New().String()
	factory.CreateUser(t, userUID1, "user1", "hashedpassword1", "user")
	factory.CreateUser(t, userUID2, "user2", "hashedpassword2", "user")

	older := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	oldID := factory.CreateComplaint(t, "Продукты 24", "user1", userUID1,
		"overcharge", "", 55.75, 37.61, "Pending", "", older)
	newID := factory.CreateComplaint(t, "Хозтовары", "user1", userUID1,
		"rudeness", "", 59.93, 30.33, "Pending", "", newer)
	factory.CreateComplaint(t, "Чужой магазин", "user2", userUID2,
		"overcharge", "", 55.75, 37.61, "Pending", "", newer)

	got, err := storage.ListComplaintsByUsername(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Сортировка от новых к старым
	assert.Equal(t, newID, got[0].ID)
	assert.Equal(t, oldID, got[1].ID)

	empty, err := storage.ListComplaintsByUsername(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStorage_ListAllComplaints(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID1 := uuid.New().String()
	userUID2 := uuid.New().String()
	factory.CreateUser(t, userUID1, "user1", "hashedpassword1", "user")
	factory.CreateUser(t, userUID2, "user2", "hashedpassword2", "user")

	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	factory.CreateComplaint(t, "Продукты 24", "user1", userUID1,
		"overcharge", "", 55.75, 37.61, "Pending", "", createdAt)
	factory.CreateComplaint(t, "Хозтовары", "user1", userUID1,
		"rudeness", "", 59.93, 30.33, "In Progress", "", createdAt)
	factory.CreateComplaint(t, "Чужой магазин", "user2", userUID2,
		"expired goods", "", 55.75, 37.61, "Resolved", "warning issued", createdAt)

	got, err := storage.ListAllComplaints(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestStorage_UpdateDisposition(t *testing.T) {
	userUID := uuid.New().String()
	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		status      models.Status
		actionTaken string
		wantErr     error
		setup       func(t *testing.T, factory *TestDataFactory) int
	}{
		{
			name:        "successful update disposition",
			status:      models.StatusResolved,
			actionTaken: "store fined",
			setup: func(t *testing.T, factory *TestDataFactory) int {
				factory.CreateUser(t, userUID, "testuser", "hashedpassword", "user")
				return factory.CreateComplaint(t, "Продукты 24", "testuser", userUID,
					"overcharge", "цена выше ценника", 55.75, 37.61, "Pending", "", createdAt)
			},
		},
		{
			name:    "complaint not found",
			status:  models.StatusInProgress,
			wantErr: ErrComplaintNotFound,
			setup: func(_ *testing.T, _ *TestDataFactory) int {
				return 9999
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			id := tt.setup(t, factory)

			got, err := storage.UpdateDisposition(context.Background(), id, tt.status, tt.actionTaken)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.status, got.Status)
				assert.Equal(t, tt.actionTaken, got.ActionTaken)
				// Остальные поля не изменяются
				assert.Equal(t, "Продукты 24", got.ShopName)
				assert.Equal(t, "testuser", got.Username)

				verification := NewTestVerification(storage)
				verification.VerifyComplaintDisposition(t, id, string(tt.status), tt.actionTaken)
			}
		})
	}
}
