// package models defines the record types scanned from the media index
package models

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
)

// SerializeFallback is the literal returned by [Serialize] whenever the
// encoder rejects a record.
const SerializeFallback = "{}"

// RecordFields holds the identity and timestamp columns shared by every
// record kind. Concrete record types embed it by value.
type RecordFields struct {
	ID        int64 `json:"id"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewRecordFields returns base fields stamped with the current wall clock
// in epoch milliseconds. The ID carries the creation instant until the
// source-provided identifier overwrites it during mapping.
func NewRecordFields() RecordFields {
	now := time.Now().UnixMilli()
	return RecordFields{ID: now, CreatedAt: now, UpdatedAt: now}
}

// RecordID returns the record's unique identifier.
func (f RecordFields) RecordID() int64 { return f.ID }

// Created returns the creation timestamp in epoch milliseconds.
func (f RecordFields) Created() int64 { return f.CreatedAt }

// Updated returns the last-modified timestamp in epoch milliseconds.
func (f RecordFields) Updated() int64 { return f.UpdatedAt }

// Record is the behavior shared by every materialized record type.
type Record interface {
	RecordID() int64
	Created() int64
	Updated() int64
}

// Serialize renders rec as compact JSON text.
//
// Serialize is total: when encoding fails the failure is logged once
// through logger, or [log.Default] when logger is nil, and the literal
// [SerializeFallback] is returned. Callers never observe an error.
func Serialize(rec Record, logger *log.Logger) string {
	data, err := json.Marshal(rec)
	if err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Error("failed to serialize record", "id", rec.RecordID(), "error", err)
		return SerializeFallback
	}
	return string(data)
}
