// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quotedesk/internal/extract"
)

// Uploader sends report PDFs to the QuoteDesk server's upload endpoint.
type Uploader struct {
	serverAddr string
	httpClient *http.Client
}

// UploadResult is the server's extraction response.
type UploadResult struct {
	Success   bool             `json:"success"`
	Headers   []string         `json:"headers"`
	Rows      []extract.Record `json:"rows"`
	TotalRows int              `json:"total_rows"`
	Error     string           `json:"error"`
}

// NewUploader creates an uploader for the given server base address, e.g.
// "http://localhost:8080".
func NewUploader(serverAddr string) *Uploader {
	return &Uploader{
		serverAddr: strings.TrimRight(serverAddr, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Upload posts one PDF to /upload and returns the extraction result.
func (u *Uploader) Upload(ctx context.Context, path string) (*UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.serverAddr+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != "" {
			return nil, fmt.Errorf("server rejected %s: %s", filepath.Base(path), result.Error)
		}
		return nil, fmt.Errorf("server rejected %s: status %d", filepath.Base(path), resp.StatusCode)
	}
	return &result, nil
}

// Health checks the server's health endpoint.
func (u *Uploader) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.serverAddr+"/api/v1/health", nil)
	if err != nil {
		return err
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
