package queue

import (
	"testing"

	"github.com/dujiao-next/storefront/internal/config"
)

func TestShipmentCreateTaskRoundTrip(t *testing.T) {
	task, err := NewShipmentCreateTask(ShipmentCreatePayload{OrderID: 100001, Source: "webhook"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskShipmentCreate {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseShipmentCreatePayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.OrderID != 100001 || payload.Source != "webhook" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueShipmentCreate(ShipmentCreatePayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380})
	if opt.Addr != "redis:6380" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency: %d", cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("default queue missing: %+v", cfg.Queues)
	}
}
