package dto

import "github.com/SscSPs/finance_tracker/internal/core/domain"

// NotifyRequest is what the engines hand to the notification service.
type NotifyRequest struct {
	UserID            string
	Title             string
	Message           string
	Kind              domain.NotificationKind
	Priority          domain.NotificationPriority
	RelatedEntityType string
	RelatedEntityID   string
	Data              map[string]any
	// DedupeKey, when set, suppresses a repeat within the service's dedupe window.
	DedupeKey string
}

// UpdatePreferencesRequest changes notification switches.
type UpdatePreferencesRequest struct {
	RemindersEnabled *bool `json:"remindersEnabled"`
	RecurringEnabled *bool `json:"recurringEnabled"`
}

// ListNotificationsParams holds query parameters for the inbox.
type ListNotificationsParams struct {
	UnreadOnly bool `form:"unreadOnly"`
	Limit      int  `form:"limit" binding:"omitempty,min=1,max=200"`
}
