package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/grigormateeev/complaints-tracker/internal/models"
)

// CreateComplaint вставляет новую жалобу и возвращает созданную запись
// с идентификатором и датой создания, выставленными базой.
func (s *Storage) CreateComplaint(ctx context.Context, entry models.Complaint) (*models.Complaint, error) {
	const op = "storage.CreateComplaint"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO complaints (shop_name, username, user_uid, category, description,
			      lat, lng, status, action_taken)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id, created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		entry.ShopName, entry.Username, entry.UserUID, entry.Category, entry.Description,
		entry.Location.Lat, entry.Location.Lng, string(entry.Status), entry.ActionTaken,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, nil
}

// ReadComplaint возвращает жалобу по её ID.
// Возвращает ErrComplaintNotFound, если записи нет.
func (s *Storage) ReadComplaint(ctx context.Context, id int) (*models.Complaint, error) {
	const op = "storage.ReadComplaint"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, shop_name, username, user_uid, category, description,
			      lat, lng, status, action_taken, created_at
			  FROM complaints
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	entry, err := scanComplaint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrComplaintNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

// ListComplaintsByUsername возвращает жалобы пользователя,
// отсортированные от новых к старым.
func (s *Storage) ListComplaintsByUsername(ctx context.Context, username string) ([]*models.Complaint, error) {
	const op = "storage.ListComplaintsByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, shop_name, username, user_uid, category, description,
			      lat, lng, status, action_taken, created_at
			  FROM complaints
			  WHERE username = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	return collectComplaints(op, rows)
}

// ListAllComplaints возвращает все жалобы.
func (s *Storage) ListAllComplaints(ctx context.Context) ([]*models.Complaint, error) {
	const op = "storage.ListAllComplaints"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, shop_name, username, user_uid, category, description,
			      lat, lng, status, action_taken, created_at
			  FROM complaints`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	return collectComplaints(op, rows)
}

// UpdateDisposition меняет статус и принятые меры у жалобы, остальные поля
// не трогает. Возвращает обновлённую запись или ErrComplaintNotFound.
func (s *Storage) UpdateDisposition(ctx context.Context, id int, status models.Status, actionTaken string) (*models.Complaint, error) {
	const op = "storage.UpdateDisposition"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE complaints
			  SET status = $1, action_taken = $2
			  WHERE id = $3
			  RETURNING id, shop_name, username, user_uid, category, description,
			      lat, lng, status, action_taken, created_at`
	row := s.DB.QueryRowContext(ctx, query, string(status), actionTaken, id)
	entry, err := scanComplaint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrComplaintNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	entry := &models.Complaint{}
	var status string
	if err := row.Scan(&entry.ID, &entry.ShopName, &entry.Username, &entry.UserUID,
		&entry.Category, &entry.Description, &entry.Location.Lat, &entry.Location.Lng,
		&status, &entry.ActionTaken, &entry.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	entry.Status = parsed
	return entry, nil
}

func collectComplaints(op string, rows *sql.Rows) ([]*models.Complaint, error) {
	var result []*models.Complaint
	for rows.Next() {
		entry, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
