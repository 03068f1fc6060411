// Package messaging publica eventos de dominio en Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/inventario-produccion/internal/application/ports"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// headerEventType cabecera con el tipo de evento (para filtrar sin deserializar).
const headerEventType = "event-type"

// MessageWriter subconjunto de *kafka.Writer usado por el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope formato del mensaje publicado.
type Envelope struct {
	Type    string          `json:"type"`
	Key     string          `json:"key"`
	Payload json.RawMessage `json:"payload"`
}

// KafkaPublisher implementa ports.EventPublisher sobre kafka-go.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter construye el writer para los brokers y topic dados.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
}

// NewKafkaPublisher envuelve un writer (real o de prueba).
func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish serializa el evento y lo escribe con la clave dada. La clave fija la partición, así
// los eventos con la misma clave conservan su orden. El contexto de traza viaja en las cabeceras.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", eventType, err)
	}
	value, err := json.Marshal(Envelope{Type: eventType, Key: key, Payload: raw})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := []kafka.Header{{Key: headerEventType, Value: []byte(eventType)}}
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := kafka.Message{Key: []byte(key), Value: value, Headers: headers}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
