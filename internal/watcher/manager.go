// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/quotedesk/internal/client"
	"github.com/quotedesk/internal/logger"
)

// Manager watches directories for new quote review PDFs and uploads them to
// the server for extraction.
type Manager struct {
	watchPaths []string
	uploader   *client.Uploader
	notify     bool
	watchers   map[string]*fsnotify.Watcher
	debouncer  *Debouncer

	// seen maps content hashes to upload time so re-saves of the same
	// report are not uploaded twice in one session.
	seen   map[string]time.Time
	seenMu sync.Mutex

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Status represents the current watcher status
type Status struct {
	WatchingPaths []string `json:"watching_paths"`
	Uploaded      int      `json:"uploaded"`
	Errors        int      `json:"errors"`
}

// NewManager creates a watcher manager uploading through the given client.
// notify enables desktop notifications on upload outcomes.
func NewManager(watchPaths []string, uploader *client.Uploader, notify bool) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	mgr := &Manager{
		watchPaths: watchPaths,
		uploader:   uploader,
		notify:     notify,
		watchers:   make(map[string]*fsnotify.Watcher),
		seen:       make(map[string]time.Time),
		ctx:        ctx,
		cancel:     cancel,
	}
	mgr.debouncer = NewDebouncer(500*time.Millisecond, nil)
	return mgr
}

// Start starts watching all configured paths
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.debouncer.Callback = func(filePath string) {
		go m.processFile(filePath)
	}

	for _, path := range m.watchPaths {
		if err := m.addWatchPath(path); err != nil {
			logger.Errorf("Failed to watch path %s: %v", path, err)
			continue
		}
	}

	for path, watcher := range m.watchers {
		m.wg.Add(1)
		go m.processEvents(path, watcher)
	}

	return nil
}

// Stop stops all watchers
func (m *Manager) Stop() {
	m.cancel()
	m.debouncer.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	for path, watcher := range m.watchers {
		if err := watcher.Close(); err != nil {
			logger.Warnf("Error closing watcher for %s: %v", path, err)
		}
		delete(m.watchers, path)
	}

	m.wg.Wait()
}

// Status returns current status
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.watchers))
	for path := range m.watchers {
		paths = append(paths, path)
	}
	return Status{WatchingPaths: paths}
}

// addWatchPath adds a directory to watch (recursively)
func (m *Manager) addWatchPath(rootPath string) error {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	if _, exists := m.watchers[absPath]; exists {
		return nil
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		if err := os.MkdirAll(absPath, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logger.Printf("Created watch directory: %s", absPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := watcher.Add(path); err != nil {
				logger.Warnf("failed to watch %s: %v", path, err)
			}
		}
		return nil
	}); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	m.watchers[absPath] = watcher
	logger.Printf("Watching directory (recursive): %s", absPath)

	// Pick up reports that were already there before the watcher started.
	go m.scanExistingFiles(absPath)

	return nil
}

// processEvents processes file system events
func (m *Manager) processEvents(path string, watcher *fsnotify.Watcher) {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// New subdirectories join the watch set.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warnf("Failed to watch new directory %s: %v", event.Name, err)
					} else {
						logger.Printf("Added new directory to watch: %s", event.Name)
					}
				}
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if isReportFile(event.Name) {
					m.debouncer.Trigger(event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("Watcher error for %s: %v", path, err)
		}
	}
}

// scanExistingFiles queues reports that already exist in the directory
func (m *Manager) scanExistingFiles(dir string) {
	logger.Printf("Scanning existing files in %s", dir)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isReportFile(path) {
			m.debouncer.Trigger(path)
		}
		return nil
	})
	if err != nil {
		logger.Errorf("Error scanning directory %s: %v", dir, err)
	}
}

// processFile hashes, dedups, and uploads a single report
func (m *Manager) processFile(filePath string) {
	hash, err := hashFile(filePath)
	if err != nil {
		logger.Errorf("Failed to hash %s: %v", filePath, err)
		return
	}

	m.seenMu.Lock()
	if _, dup := m.seen[hash]; dup {
		m.seenMu.Unlock()
		logger.Debugf("Skipping duplicate report: %s", filePath)
		return
	}
	m.seen[hash] = time.Now()
	m.seenMu.Unlock()

	logger.Printf("Uploading report: %s (hash %.12s)", filePath, hash)

	ctx, cancel := context.WithTimeout(m.ctx, 60*time.Second)
	defer cancel()

	result, err := m.uploader.Upload(ctx, filePath)
	if err != nil {
		logger.Errorf("Upload failed for %s: %v", filePath, err)
		// Allow a retry on the next write event.
		m.seenMu.Lock()
		delete(m.seen, hash)
		m.seenMu.Unlock()
		m.sendNotification("QuoteDesk", fmt.Sprintf("Upload failed: %s", filepath.Base(filePath)))
		return
	}

	logger.Printf("Uploaded %s: %d rows extracted", filePath, result.TotalRows)
	m.sendNotification("QuoteDesk",
		fmt.Sprintf("%s: %d rows extracted", filepath.Base(filePath), result.TotalRows))
}

// sendNotification shows a desktop notification when enabled
func (m *Manager) sendNotification(title, message string) {
	if !m.notify {
		return
	}
	if err := beeep.Notify(title, message, ""); err != nil {
		logger.Debugf("Failed to show notification: %v", err)
	}
}

// isReportFile reports whether a path looks like a quote review PDF rather
// than a temp or hidden file.
func isReportFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".pdf")
}

// hashFile returns the hex SHA-256 of a file's contents
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
