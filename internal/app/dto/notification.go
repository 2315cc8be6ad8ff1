package dto

import (
	"time"

	domainnotification "innkeep/internal/domain/notification"
)

type NotificationView struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type NotificationCollection struct {
	Items []NotificationView `json:"items"`
}

func MapNotification(n *domainnotification.Notification) NotificationView {
	return NotificationView{
		ID:            string(n.ID),
		ReservationID: string(n.ReservationID),
		Type:          string(n.Type),
		Message:       n.Message,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
}

func MapNotifications(items []*domainnotification.Notification) NotificationCollection {
	out := NotificationCollection{Items: make([]NotificationView, 0, len(items))}
	for _, n := range items {
		out.Items = append(out.Items, MapNotification(n))
	}
	return out
}
