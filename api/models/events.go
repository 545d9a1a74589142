package models

import (
	"time"

	"github.com/dave-sbs/voting-app-sub000/storage"
)

type CreateEventRequest struct {
	Category  string `json:"category"`
	CreatedBy string `json:"createdBy"`
}

type EventResponse struct {
	EventID   string    `json:"eventId"`
	EventCode string    `json:"eventCode,omitempty"`
	Category  string    `json:"category"`
	EventDate time.Time `json:"eventDate"`
	CreatedBy string    `json:"createdBy"`
	IsOpen    bool      `json:"isOpen"`
}

func TransformEventFromStorage(e *storage.Event) EventResponse {
	return EventResponse{
		EventID:   e.EventID,
		EventCode: e.EventCode,
		Category:  e.Category,
		EventDate: e.EventDate,
		CreatedBy: e.CreatedBy,
		IsOpen:    e.IsOpen,
	}
}
