// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package queue

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/quotedesk/internal/config"
)

func TestRedisQueue_EnqueueDequeue(t *testing.T) {
	// Skip if Redis is not available
	ctx := context.Background()
	client, err := config.NewRedisClient(ctx)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	queueKey := "test:quotedesk:" + time.Now().Format("20060102150405")
	q, err := NewRedisQueue(client, queueKey)
	if err != nil {
		t.Fatalf("NewRedisQueue failed: %v", err)
	}
	defer client.Del(ctx, queueKey)

	job := Job{
		Type:      "extract_document",
		Payload:   []byte(`{"path": "/tmp/report.pdf"}`),
		CreatedAt: time.Now(),
	}

	if err := q.Enqueue(ctx, job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	dequeueCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	dequeued, err := q.Dequeue(dequeueCtx)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}

	if dequeued.Type != job.Type {
		t.Errorf("Expected job type %s, got %s", job.Type, dequeued.Type)
	}

	// Compare payloads as parsed JSON, not raw bytes
	var expected, actual map[string]interface{}
	if err := json.Unmarshal(job.Payload, &expected); err != nil {
		t.Fatalf("Failed to unmarshal expected payload: %v", err)
	}
	if err := json.Unmarshal(dequeued.Payload, &actual); err != nil {
		t.Fatalf("Failed to unmarshal actual payload: %v", err)
	}
	if expected["path"] != actual["path"] {
		t.Errorf("Expected payload path %v, got %v", expected["path"], actual["path"])
	}
}

func TestRedisQueue_FIFOOrder(t *testing.T) {
	// Skip if Redis is not available
	ctx := context.Background()
	client, err := config.NewRedisClient(ctx)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	queueKey := "test:quotedesk:fifo:" + time.Now().Format("20060102150405")
	q, err := NewRedisQueue(client, queueKey)
	if err != nil {
		t.Fatalf("NewRedisQueue failed: %v", err)
	}
	defer client.Del(ctx, queueKey)

	numJobs := 5
	for i := 0; i < numJobs; i++ {
		job := Job{
			Type:      "extract_document",
			Payload:   []byte(`{"index": ` + strconv.Itoa(i) + `}`),
			CreatedAt: time.Now(),
		}
		if err := q.Enqueue(ctx, job); err != nil {
			t.Fatalf("Enqueue failed for job %d: %v", i, err)
		}
	}

	dequeueCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for i := 0; i < numJobs; i++ {
		dequeued, err := q.Dequeue(dequeueCtx)
		if err != nil {
			t.Fatalf("Dequeue failed for job %d: %v", i, err)
		}
		var payload map[string]interface{}
		if err := json.Unmarshal(dequeued.Payload, &payload); err != nil {
			t.Fatalf("Failed to unmarshal payload %d: %v", i, err)
		}
		if int(payload["index"].(float64)) != i {
			t.Errorf("Expected job %d, got %v", i, payload["index"])
		}
	}
}

func TestRedisQueue_ContextCancellation(t *testing.T) {
	// Skip if Redis is not available
	ctx := context.Background()
	client, err := config.NewRedisClient(ctx)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	queueKey := "test:quotedesk:cancel:" + time.Now().Format("20060102150405")
	q, err := NewRedisQueue(client, queueKey)
	if err != nil {
		t.Fatalf("NewRedisQueue failed: %v", err)
	}
	defer client.Del(ctx, queueKey)

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel() // Cancel immediately

	if _, err := q.Dequeue(cancelCtx); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
