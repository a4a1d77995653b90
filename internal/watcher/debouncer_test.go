// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"sync"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var mu sync.Mutex
	var fired []string

	d := NewDebouncer(50*time.Millisecond, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, path)
	})
	defer d.Stop()

	// A burst of triggers for the same path should fire once.
	for i := 0; i < 5; i++ {
		d.Trigger("/tmp/report.pdf")
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 {
		t.Errorf("Expected 1 callback for burst, got %d", len(fired))
	}
}

func TestDebouncer_SeparatePaths(t *testing.T) {
	var mu sync.Mutex
	fired := make(map[string]int)

	d := NewDebouncer(20*time.Millisecond, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		fired[path]++
	})
	defer d.Stop()

	d.Trigger("/tmp/a.pdf")
	d.Trigger("/tmp/b.pdf")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired["/tmp/a.pdf"] != 1 || fired["/tmp/b.pdf"] != 1 {
		t.Errorf("Expected each path to fire once, got %v", fired)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var mu sync.Mutex
	count := 0

	d := NewDebouncer(30*time.Millisecond, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})
	defer d.Stop()

	d.Trigger("/tmp/report.pdf")
	d.Cancel("/tmp/report.pdf")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("Expected no callbacks after cancel, got %d", count)
	}
}

func TestIsReportFile(t *testing.T) {
	accept := []string{
		"/watch/daily.pdf",
		"/watch/DAILY.PDF",
		"/watch/sub/quote review 8-25.pdf",
	}
	for _, path := range accept {
		if !isReportFile(path) {
			t.Errorf("Expected %q to be a report file", path)
		}
	}

	reject := []string{
		"/watch/daily.docx",
		"/watch/.hidden.pdf",
		"/watch/~$daily.pdf",
		"/watch/notes.txt",
	}
	for _, path := range reject {
		if isReportFile(path) {
			t.Errorf("Expected %q to be skipped", path)
		}
	}
}
