package model

import "time"

type NotificationKind string

const (
	NotifyReserved    NotificationKind = "reserved"
	NotifyPickedUp    NotificationKind = "picked_up"
	NotifyCancelled   NotificationKind = "cancelled"
	NotifyExpired     NotificationKind = "expired"
	NotifyReturned    NotificationKind = "returned"
	NotifyReminder    NotificationKind = "reminder"
	NotifyNotReturned NotificationKind = "not_returned"
	NotifyBanned      NotificationKind = "banned"
	NotifyUnbanned    NotificationKind = "unbanned"
)

// Notification is what the chat transport receives. The transport owns
// formatting and localization; Message is a plain fallback text.
type Notification struct {
	ID               string           `json:"id"`
	Kind             NotificationKind `json:"kind"`
	PatronExternalID string           `json:"patronExternalId"`
	ReservationID    int64            `json:"reservationId,omitempty"`
	WorkTitle        string           `json:"workTitle,omitempty"`
	Deadline         *time.Time       `json:"deadline,omitempty"`
	Message          string           `json:"message"`
	CreatedAt        time.Time        `json:"createdAt"`
}
