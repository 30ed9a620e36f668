package model

import "time"

// Notification is addressed to a single user.
type Notification struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	UserID   int       `json:"userId"`
	UserName *string   `json:"userName,omitempty"`
	SentAt   time.Time `json:"sentAt"`
}

// NotificationItem is the dashboard projection of a notification.
type NotificationItem struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	UserName    *string   `json:"userName,omitempty"`
}

// Item projects n into its dashboard shape.
func (n Notification) Item() NotificationItem {
	return NotificationItem{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Message,
		Date:        n.SentAt,
		UserName:    n.UserName,
	}
}

type CreateNotificationRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Message string `json:"message" binding:"required,min=1,max=2000"`
	UserID  *int   `json:"userId" binding:"omitempty,min=1"`
}
