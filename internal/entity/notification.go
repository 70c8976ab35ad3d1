package entity

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	ID      int64            `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time"`
	Type    NotificationType `json:"type"`
	IsRead  bool             `json:"isRead"`
}
