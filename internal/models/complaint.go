package models

import (
	"fmt"
	"time"
)

// Status — статус рассмотрения жалобы.
type Status string

const (
	// StatusPending — жалоба подана и ещё не рассмотрена.
	StatusPending Status = "Pending"
	// StatusInProgress — жалоба в работе у администратора.
	StatusInProgress Status = "In Progress"
	// StatusResolved — по жалобе приняты меры.
	StatusResolved Status = "Resolved"
)

// ParseStatus преобразует строку в Status, возвращает ошибку для неизвестных значений.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending:
		return StatusPending, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusResolved:
		return StatusResolved, nil
	default:
		return "", fmt.Errorf("unknown status: %q", s)
	}
}

// Location — координаты магазина, на который подана жалоба.
// Оба поля обязательны: широта без долготы не имеет смысла.
type Location struct {
	Lat float64 `json:"lat"` // Широта
	Lng float64 `json:"lng"` // Долгота
}

// Complaint представляет собой основную модель жалобы,
// используемую в бизнес-логике и хранилище.
type Complaint struct {
	ID          int       `json:"id"`          // Идентификатор жалобы
	ShopName    string    `json:"shopName"`    // Название магазина
	Username    string    `json:"username"`    // Имя пользователя, подавшего жалобу
	UserUID     string    `json:"userUid"`     // Идентификатор пользователя, подавшего жалобу
	Category    string    `json:"category"`    // Категория нарушения
	Description string    `json:"description"` // Описание (необязательное)
	Location    Location  `json:"location"`    // Координаты магазина
	Status      Status    `json:"status"`      // Статус рассмотрения
	ActionTaken string    `json:"actionTaken"` // Принятые меры (заполняет администратор)
	CreatedAt   time.Time `json:"createdAt"`   // Дата подачи жалобы
}

// DummyComplaint используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Complaint.
type DummyComplaint struct {
	ShopName    string        `json:"shopName" validate:"required"` // Название магазина
	Category    string        `json:"category" validate:"required"` // Категория нарушения
	Description string        `json:"description"`                  // Описание (необязательное)
	Location    DummyLocation `json:"location" validate:"required"` // Координаты магазина
}

// DummyLocation — координаты из JSON-запроса. Указатели позволяют отличить
// отсутствующее поле от нулевой координаты.
type DummyLocation struct {
	Lat *float64 `json:"lat" validate:"required"` // Широта
	Lng *float64 `json:"lng" validate:"required"` // Долгота
}
