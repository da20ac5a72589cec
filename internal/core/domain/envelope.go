// internal/core/domain/envelope.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the {success, data, message} wrapper every backend response uses
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the envelope payload into dest. A missing or null
// payload leaves dest untouched.
func (e *Envelope) Decode(dest any) error {
	if len(e.Data) == 0 || bytes.Equal(e.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("decode envelope data: %w", err)
	}
	return nil
}

// Page is one page of a paginated listing
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// ItemPage is a page of inventory items
type ItemPage = Page[Item]

// DecodeLogEntries accepts either a paginated payload or a bare array.
func DecodeLogEntries(data json.RawMessage) ([]LogEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []LogEntry{}, nil
	}

	if trimmed[0] == '[' {
		var entries []LogEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode activity log array: %w", err)
		}
		return entries, nil
	}

	var page Page[LogEntry]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("decode activity log page: %w", err)
	}
	if page.Content == nil {
		return []LogEntry{}, nil
	}
	return page.Content, nil
}
