package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Metadata struct {
	// image-specific
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// pdf-specific
	PageCount int `json:"page_count,omitempty"`

	// best-effort EXIF enrichment
	CameraMake  string     `json:"camera_make,omitempty"`
	CameraModel string     `json:"camera_model,omitempty"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
}

func (m Metadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal Metadata: %w", err)
	}
	return b, nil
}
func (m *Metadata) Scan(src interface{}) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("Metadata.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal Metadata: %w", err)
	}
	return nil
}

type Variant struct {
	ObjectKey string `json:"object_key"`
	SizeBytes int64  `json:"size_bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
}

// Variants maps a variant name (thumbnail, medium, full) to its stored
// rendition. Entries are only ever written whole, never partially.
type Variants map[string]Variant

func (v Variants) Value() (driver.Value, error) {
	return json.Marshal(v)
}
func (v *Variants) Scan(src interface{}) error {
	if src == nil {
		*v = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("Variants.Scan: expected []byte, got %T", src)
	}
	return json.Unmarshal(data, v)
}
