package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"anonymizer/internal/dto"
	"anonymizer/internal/handler"
	"anonymizer/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrQueueFull is returned by Enqueue when the backlog is at capacity.
var ErrQueueFull = errors.New("worker: request queue is full")

// Worker processes queued invocation requests one at a time.
type Worker struct {
	invoker handler.Invoker
	queue   chan dto.Request
	logger  *logger.Logger
}

func NewWorker(invoker handler.Invoker, capacity int, logger *logger.Logger) *Worker {
	return &Worker{
		invoker: invoker,
		queue:   make(chan dto.Request, capacity),
		logger:  logger,
	}
}

// Enqueue decodes an MQTT payload and queues it for Run.
func (w *Worker) Enqueue(payload []byte) error {
	var req dto.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}

	select {
	case w.queue <- req:
		w.logger.Debug("[%s] Request queued, backlog %d", req.ID, len(w.queue))
		return nil
	default:
		return ErrQueueFull
	}
}

// Run handles queued requests until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.queue:
			w.invoker.Handle(ctx, req)
		}
	}
}

// OnMessage is an mqtt.MessageHandler feeding the queue.
func (w *Worker) OnMessage(c mqtt.Client, m mqtt.Message) {
	if err := w.Enqueue(m.Payload()); err != nil {
		w.logger.Error("Dropping message on %s: %v", m.Topic(), err)
	}
}

// Publisher is the subset of mqtt.Client used to send events.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTNotifier publishes every invocation event to a fixed topic.
type MQTTNotifier struct {
	client Publisher
	topic  string
	logger *logger.Logger
}

func NewMQTTNotifier(client Publisher, topic string, logger *logger.Logger) *MQTTNotifier {
	return &MQTTNotifier{client: client, topic: topic, logger: logger}
}

func (n *MQTTNotifier) Publish(event dto.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("[%s] Failed to encode event: %v", event.ID, err)
		return
	}

	token := n.client.Publish(n.topic, 0, false, payload)
	if token.Wait() && token.Error() != nil {
		n.logger.Error("[%s] Failed to publish event to %s: %v", event.ID, n.topic, token.Error())
		return
	}
	n.logger.Debug("[%s] Event published to %s", event.ID, n.topic)
}
