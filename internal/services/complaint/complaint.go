// Package services содержит бизнес-логику работы с жалобами: подачу,
// выборку с учётом роли, изменение статуса, кеширование и публикацию событий.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/grigormateeev/complaints-tracker/internal/lib/sl"
	"github.com/grigormateeev/complaints-tracker/internal/models"
)

// ErrForbidden — у вызывающего недостаточно прав для операции.
var ErrForbidden = errors.New("access denied")

// ComplaintRepository определяет методы для работы с жалобами в хранилище.
type ComplaintRepository interface {
	// CreateComplaint добавляет новую жалобу и возвращает созданную запись.
	CreateComplaint(ctx context.Context, entry models.Complaint) (*models.Complaint, error)
	// ReadComplaint возвращает жалобу по ID.
	ReadComplaint(ctx context.Context, id int) (*models.Complaint, error)
	// ListComplaintsByUsername возвращает жалобы пользователя от новых к старым.
	ListComplaintsByUsername(ctx context.Context, username string) ([]*models.Complaint, error)
	// ListAllComplaints возвращает все жалобы.
	ListAllComplaints(ctx context.Context) ([]*models.Complaint, error)
	// UpdateDisposition меняет статус и принятые меры по жалобе.
	UpdateDisposition(ctx context.Context, id int, status models.Status, actionTaken string) (*models.Complaint, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Publisher публикует события об изменении статуса жалоб.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// DispositionEvent — сообщение для очереди уведомлений об изменении статуса.
type DispositionEvent struct {
	ComplaintID int    `json:"complaint_id"`
	Username    string `json:"username"`
	ShopName    string `json:"shop_name"`
	Status      string `json:"status"`
	ActionTaken string `json:"action_taken"`
}

// ComplaintService реализует бизнес-логику работы с жалобами.
type ComplaintService struct {
	repo      ComplaintRepository
	cache     Cache
	publisher Publisher
	log       *slog.Logger
}

// NewComplaintService создает новый экземпляр ComplaintService.
func NewComplaintService(repo ComplaintRepository, cache Cache, publisher Publisher, log *slog.Logger) *ComplaintService {
	return &ComplaintService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Submit создает новую жалобу от имени вызывающего. Жалоба всегда
// стартует в статусе Pending с пустыми принятыми мерами.
func (s *ComplaintService) Submit(ctx context.Context, identity models.Identity, req models.DummyComplaint) (*models.Complaint, error) {
	entry := models.Complaint{
		ShopName:    req.ShopName,
		Username:    identity.Username,
		UserUID:     identity.UserUID,
		Category:    req.Category,
		Description: req.Description,
		Location: models.Location{
			Lat: *req.Location.Lat,
			Lng: *req.Location.Lng,
		},
		Status:      models.StatusPending,
		ActionTaken: "",
	}

	created, err := s.repo.CreateComplaint(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new complaint", slog.Int("id", created.ID))

	cacheKey := fmt.Sprintf("complaint:%d", created.ID)
	if err := s.cache.Set(cacheKey, created, time.Hour); err != nil {
		s.log.Warn("failed to cache complaint", slog.String("key", cacheKey), sl.Err(err))
	}

	return created, nil
}

// ListOwn возвращает жалобы вызывающего, отсортированные от новых к старым.
func (s *ComplaintService) ListOwn(ctx context.Context, identity models.Identity) ([]*models.Complaint, error) {
	return s.repo.ListComplaintsByUsername(ctx, identity.Username)
}

// ListAll возвращает все жалобы. Доступно только администратору.
func (s *ComplaintService) ListAll(ctx context.Context, identity models.Identity) ([]*models.Complaint, error) {
	switch identity.Role {
	case models.RoleAdmin:
		return s.repo.ListAllComplaints(ctx)
	case models.RoleUser:
		return nil, ErrForbidden
	default:
		return nil, ErrForbidden
	}
}

// Read возвращает жалобу по ID, используя кеш или репозиторий.
// Обычный пользователь видит только собственные жалобы.
func (s *ComplaintService) Read(ctx context.Context, identity models.Identity, id int) (*models.Complaint, error) {
	var entry *models.Complaint
	cacheKey := fmt.Sprintf("complaint:%d", id)
	found, err := s.cache.Get(cacheKey, &entry)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
		found = false
	}
	if !found {
		entry, err = s.repo.ReadComplaint(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, entry, time.Hour); err != nil {
			s.log.Warn("failed to cache complaint", slog.String("key", cacheKey), sl.Err(err))
		}
	}

	if !identity.IsAdmin() && entry.Username != identity.Username {
		return nil, ErrForbidden
	}
	return entry, nil
}

// UpdateDisposition меняет статус и принятые меры по жалобе. Доступно только
// администратору. Обновляет кеш и публикует событие для очереди уведомлений.
func (s *ComplaintService) UpdateDisposition(ctx context.Context, identity models.Identity, id int, status models.Status, actionTaken string) (*models.Complaint, error) {
	switch identity.Role {
	case models.RoleAdmin:
	case models.RoleUser:
		return nil, ErrForbidden
	default:
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdateDisposition(ctx, id, status, actionTaken)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated complaint disposition",
		slog.Int("id", updated.ID), slog.String("status", string(updated.Status)))

	cacheKey := fmt.Sprintf("complaint:%d", updated.ID)
	if err := s.cache.Set(cacheKey, updated, time.Hour); err != nil {
		s.log.Warn("failed to cache complaint", slog.String("key", cacheKey), sl.Err(err))
	}

	event := DispositionEvent{
		ComplaintID: updated.ID,
		Username:    updated.Username,
		ShopName:    updated.ShopName,
		Status:      string(updated.Status),
		ActionTaken: updated.ActionTaken,
	}
	if err := s.publisher.Publish("disposition", event); err != nil {
		s.log.Warn("failed to publish disposition event", slog.Int("id", updated.ID), sl.Err(err))
	}

	return updated, nil
}
