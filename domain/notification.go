package domain

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
)

// Notification is an absence alert waiting to be relayed to a parent.
type Notification struct {
	ID          int64              `json:"id"`
	StudentID   int64              `json:"student_id"`
	StudentName string             `json:"student_name"`
	ClassID     int64              `json:"class_id"`
	ClassName   string             `json:"class_name"`
	Date        string             `json:"date"`
	Status      NotificationStatus `json:"status"`
	Message     string             `json:"message,omitempty"`
}
