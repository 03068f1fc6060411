package ports

import "context"

// EventPublisher puerto de salida para eventos de dominio (materials.deducted,
// production.completed). Se invoca después del commit: un fallo aquí no deshace nada.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
