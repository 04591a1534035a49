package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// PageOptions defines pagination parameters
type PageOptions struct {
	After    string `json:"after,omitempty"` // Base64 encoded cursor
	Limit    int    `json:"limit,omitempty"`
	MaxLimit int    `json:"max_limit,omitempty"`
}

// Page is one slice of the registry in ascending id order
type Page struct {
	Employees  []Employee
	HasNext    bool
	NextCursor string
	Total      int64
}

// PageCursor marks the last id handed out on the previous page
type PageCursor struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// EncodeCursor encodes a cursor to base64
func EncodeCursor(cursor *PageCursor) (string, error) {
	data, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor decodes a base64 cursor
func DecodeCursor(encoded string) (*PageCursor, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}

	var cursor PageCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cursor: %w", err)
	}

	return &cursor, nil
}

// DefaultPageOptions returns default pagination settings
func DefaultPageOptions() *PageOptions {
	return &PageOptions{
		Limit:    50,
		MaxLimit: 1000,
	}
}

// Validate validates pagination options
func (po *PageOptions) Validate() error {
	if po.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if po.MaxLimit > 0 && po.Limit > po.MaxLimit {
		return fmt.Errorf("limit %d exceeds maximum %d", po.Limit, po.MaxLimit)
	}
	return nil
}

// EffectiveLimit applies the default and the ceiling.
func (po *PageOptions) EffectiveLimit() int {
	limit := po.Limit
	if limit <= 0 {
		limit = 50
	}
	if po.MaxLimit > 0 && limit > po.MaxLimit {
		limit = po.MaxLimit
	}
	return limit
}
