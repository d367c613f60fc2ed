package domain

import "time"

type Notification struct {
	ID               int32      `json:"id"`
	UserID           int32      `json:"user_id"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	IsRead           bool       `json:"is_read"`
	CreatedAt        time.Time  `json:"created_at"`
	DeliveredAt      *time.Time `json:"-"`
	DeliveryAttempts int32      `json:"-"`
	EmailSentAt      *time.Time `json:"-"`
	PushSentAt       *time.Time `json:"-"`
}

// DeliveryChannel is an outbound route for a notification.
type DeliveryChannel string

const (
	ChannelEmail DeliveryChannel = "email"
	ChannelPush  DeliveryChannel = "push"
)

// SentVia reports whether the channel already accepted this notification.
func (n *Notification) SentVia(ch DeliveryChannel) bool {
	switch ch {
	case ChannelEmail:
		return n.EmailSentAt != nil
	case ChannelPush:
		return n.PushSentAt != nil
	}
	return false
}
