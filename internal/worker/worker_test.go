package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"anonymizer/internal/dto"
	"anonymizer/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type recordingInvoker struct {
	mu       sync.Mutex
	requests []dto.Request
	active   int
	overlap  bool
}

func (r *recordingInvoker) Handle(ctx context.Context, req dto.Request) dto.Response {
	r.mu.Lock()
	r.active++
	if r.active > 1 {
		r.overlap = true
	}
	r.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	r.mu.Lock()
	r.active--
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	return dto.NewResponse("200", "ok")
}

func (r *recordingInvoker) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func newTestLogger() *logger.Logger {
	return logger.New(io.Discard, io.Discard, false)
}

func TestWorker_ProcessesInOrderOneAtATime(t *testing.T) {
	invoker := &recordingInvoker{}
	w := NewWorker(invoker, 8, newTestLogger())

	for _, id := range []string{"a", "b", "c"} {
		payload := `{"id":"` + id + `","image":"s3://in/x.jpg","filtered_image":"s3://out/x.jpg"}`
		if err := w.Enqueue([]byte(payload)); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for invoker.count() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 3 requests, got %d", invoker.count())
		}
		time.Sleep(5 * time.Millisecond)
	}

	invoker.mu.Lock()
	defer invoker.mu.Unlock()
	if invoker.overlap {
		t.Error("Requests were handled concurrently")
	}
	for i, id := range []string{"a", "b", "c"} {
		if invoker.requests[i].ID != id {
			t.Errorf("Request %d = %s, expected %s", i, invoker.requests[i].ID, id)
		}
	}
}

func TestWorker_EnqueueErrors(t *testing.T) {
	w := NewWorker(&recordingInvoker{}, 1, newTestLogger())

	if err := w.Enqueue([]byte("{broken")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if err := w.Enqueue([]byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := w.Enqueue([]byte(`{"id":"2"}`)); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
}

type doneToken struct {
	mqtt.Token
	err error
}

func (t *doneToken) Wait() bool   { return true }
func (t *doneToken) Error() error { return t.err }

type fakePublisher struct {
	topic   string
	payload []byte
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.topic = topic
	p.payload = payload.([]byte)
	return &doneToken{}
}

func TestMQTTNotifier_Publish(t *testing.T) {
	publisher := &fakePublisher{}
	n := NewMQTTNotifier(publisher, "anonymizer/response", newTestLogger())

	n.Publish(dto.Event{ID: "42", Response: dto.NewResponse("404", "The object does not exist: s3://in/a.jpg")})

	if publisher.topic != "anonymizer/response" {
		t.Errorf("Topic = %s", publisher.topic)
	}
	var event dto.Event
	if err := json.Unmarshal(publisher.payload, &event); err != nil {
		t.Fatalf("Invalid payload: %v", err)
	}
	if event.ID != "42" || event.Response.StatusCode != "404" {
		t.Errorf("Unexpected event: %+v", event)
	}
}
