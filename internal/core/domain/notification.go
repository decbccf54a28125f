package domain

import "time"

// NotificationKind groups notifications for filtering on the client.
type NotificationKind string

const (
	NotificationReminder         NotificationKind = "REMINDER"
	NotificationRecurringSuccess NotificationKind = "RECURRING_EXECUTED"
	NotificationRecurringSkipped NotificationKind = "RECURRING_SKIPPED"
	NotificationRecurringFailed  NotificationKind = "RECURRING_FAILED"
	NotificationRecurringDone    NotificationKind = "RECURRING_COMPLETED"
	NotificationReminderFailed   NotificationKind = "REMINDER_FAILED"
)

// NotificationPriority orders notifications for delivery.
type NotificationPriority string

const (
	PriorityHigh   NotificationPriority = "HIGH"
	PriorityMedium NotificationPriority = "MEDIUM"
	PriorityLow    NotificationPriority = "LOW"
)

// Related entity types referenced by notifications.
const (
	EntityRecurringRule = "RECURRING_RULE"
	EntityReminder      = "REMINDER"
)

// Notification is a persisted message to a user.
type Notification struct {
	NotificationID    string               `json:"notificationID"`
	UserID            string               `json:"userID"`
	Title             string               `json:"title"`
	Message           string               `json:"message"`
	Kind              NotificationKind     `json:"kind"`
	Priority          NotificationPriority `json:"priority"`
	RelatedEntityType string               `json:"relatedEntityType"`
	RelatedEntityID   string               `json:"relatedEntityID"`
	Data              map[string]any       `json:"data,omitempty"`
	DedupeKey         *string              `json:"dedupeKey,omitempty"`
	IsRead            bool                 `json:"isRead"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// NotificationPreferences are per-user delivery switches.
type NotificationPreferences struct {
	UserID           string    `json:"userID"`
	RemindersEnabled bool      `json:"remindersEnabled"`
	RecurringEnabled bool      `json:"recurringEnabled"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DefaultPreferences is used for users that never saved preferences.
func DefaultPreferences(userID string) NotificationPreferences {
	return NotificationPreferences{UserID: userID, RemindersEnabled: true, RecurringEnabled: true}
}

// Allows reports whether a notification kind passes the user's switches.
func (p NotificationPreferences) Allows(kind NotificationKind) bool {
	switch kind {
	case NotificationReminder, NotificationReminderFailed:
		return p.RemindersEnabled
	case NotificationRecurringSuccess, NotificationRecurringSkipped, NotificationRecurringFailed, NotificationRecurringDone:
		return p.RecurringEnabled
	}
	return true
}
