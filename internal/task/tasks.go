package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeProcessMedia = "media:process"

// ProcessMediaPayload carries the original object key, not the media ID: the
// pipeline derives the ID from the key exactly like it would from a raw
// storage event.
type ProcessMediaPayload struct {
	OriginalKey string `json:"original_key" validate:"required"`
}

// NewProcessMediaTask creates an Asynq task for running the variant pipeline
// on the original stored at the given key.
func NewProcessMediaTask(originalKey string) (*asynq.Task, error) {
	p := ProcessMediaPayload{OriginalKey: originalKey}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal process-media payload: %w", err)
	}
	return asynq.NewTask(TypeProcessMedia, data), nil
}

// ParseProcessMediaPayload parses the task payload to ProcessMediaPayload.
func ParseProcessMediaPayload(t *asynq.Task) (ProcessMediaPayload, error) {
	var p ProcessMediaPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ProcessMediaPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	if p.OriginalKey == "" {
		return ProcessMediaPayload{}, fmt.Errorf("payload carries no original key")
	}
	return p, nil
}
