package domain

import "time"

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationInfo    NotificationLevel = "info"
)

// Notification is a user-facing toast. Text is supplied by the caller.
type Notification struct {
	Level     NotificationLevel `json:"type"`
	Title     string            `json:"text1"`
	Detail    string            `json:"text2,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
