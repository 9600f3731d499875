package ports

import "context"

// EventPublisher publishes session lifecycle events to other services
type EventPublisher interface {
	PublishSessionIssued(ctx context.Context, address string, scheme string) error
	PublishLogout(ctx context.Context, address string) error
}
