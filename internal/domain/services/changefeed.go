package services

import "applytrack/internal/domain/models"

// ChangePublisher is notified after every committed write
type ChangePublisher interface {
	Publish(userID string, event models.ChangeEvent)
}

// ChangeFeed fans change events out to a user's subscribers
type ChangeFeed interface {
	ChangePublisher

	// Subscribe returns the event channel and an unsubscribe function.
	// Callers must invoke unsubscribe when they stop reading.
	Subscribe(userID string) (<-chan models.ChangeEvent, func())
}
