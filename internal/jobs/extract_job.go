// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quotedesk/internal/database"
	"github.com/quotedesk/internal/extract"
	"github.com/quotedesk/internal/logger"
	"github.com/quotedesk/internal/pdfreport"
	"github.com/quotedesk/internal/queue"
)

const JobTypeExtractDocument = "extract_document"

// ExtractDocumentPayload represents the payload for an async extraction job.
type ExtractDocumentPayload struct {
	ExtractionID string    `json:"extractionId"`
	Path         string    `json:"path"`
	Filename     string    `json:"filename"`
	RequestedAt  time.Time `json:"requestedAt"`
}

// NewExtractDocumentJob creates a queue job for extracting one report.
func NewExtractDocumentJob(payload ExtractDocumentPayload) (queue.Job, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return queue.Job{}, fmt.Errorf("marshal payload: %w", err)
	}

	return queue.Job{
		Type:      JobTypeExtractDocument,
		Payload:   payloadJSON,
		CreatedAt: time.Now(),
	}, nil
}

// EnqueueExtractDocument enqueues an extraction job.
func EnqueueExtractDocument(ctx context.Context, q queue.Queue, payload ExtractDocumentPayload) error {
	logger.Printf("EnqueueExtractDocument: extractionId=%s filename=%s", payload.ExtractionID, payload.Filename)

	job, err := NewExtractDocumentJob(payload)
	if err != nil {
		return err
	}
	if err := q.Enqueue(ctx, job); err != nil {
		logger.Errorf("EnqueueExtractDocument: failed to enqueue: %v", err)
		return err
	}
	return nil
}

// Notifier receives a message when an extraction finishes. Satisfied by the
// server's WebSocket manager.
type Notifier interface {
	Broadcast(notificationType, message, level string)
}

// ExtractProcessor handles extract_document jobs pulled off the queue.
type ExtractProcessor struct {
	store    *database.ExtractionStore
	engine   *extract.Engine
	notifier Notifier
}

// NewExtractProcessor wires the job processor's dependencies. notifier may
// be nil.
func NewExtractProcessor(store *database.ExtractionStore, engine *extract.Engine, notifier Notifier) *ExtractProcessor {
	return &ExtractProcessor{store: store, engine: engine, notifier: notifier}
}

// Handle processes one extract_document job: run the extraction and persist
// the outcome on the extraction record. Unknown job types are ignored.
func (p *ExtractProcessor) Handle(ctx context.Context, job queue.Job) error {
	if job.Type != JobTypeExtractDocument {
		logger.Warnf("ExtractProcessor: unexpected job type %s", job.Type)
		return nil
	}

	var payload ExtractDocumentPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	logger.Printf("ExtractProcessor: extractionId=%s filename=%s", payload.ExtractionID, payload.Filename)

	if err := p.store.MarkRunning(payload.ExtractionID); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}

	doc, err := pdfreport.Open(payload.Path)
	if err != nil {
		return p.fail(payload, fmt.Errorf("read report: %w", err))
	}

	_, records, err := p.engine.Extract(ctx, doc)
	if err != nil {
		return p.fail(payload, fmt.Errorf("extract: %w", err))
	}

	resultJSON, err := json.Marshal(records)
	if err != nil {
		return p.fail(payload, fmt.Errorf("marshal result: %w", err))
	}

	if err := p.store.MarkComplete(payload.ExtractionID, len(records), string(resultJSON)); err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}

	logger.Printf("ExtractProcessor: extractionId=%s complete rows=%d", payload.ExtractionID, len(records))
	if p.notifier != nil {
		p.notifier.Broadcast("EXTRACTION_COMPLETE",
			fmt.Sprintf("%s: %d rows extracted", payload.Filename, len(records)), "info")
	}
	return nil
}

func (p *ExtractProcessor) fail(payload ExtractDocumentPayload, cause error) error {
	logger.Errorf("ExtractProcessor: extractionId=%s failed: %v", payload.ExtractionID, cause)
	if err := p.store.MarkFailed(payload.ExtractionID, cause.Error()); err != nil {
		logger.Errorf("ExtractProcessor: failed to record failure for %s: %v", payload.ExtractionID, err)
	}
	if p.notifier != nil {
		p.notifier.Broadcast("EXTRACTION_FAILED",
			fmt.Sprintf("%s: %v", payload.Filename, cause), "error")
	}
	return cause
}
