package ports

import "goclean/domain/cleaning"

// RunEventPublisher receives run lifecycle events. Publish must not block.
type RunEventPublisher interface {
	Publish(event cleaning.RunEvent)
}
