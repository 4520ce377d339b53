/*
PURPOSE:
  Defines the core data structures shared across Tree Trial.
  A ResultRecord is the persisted outcome of one finished search trial.

REQUIREMENTS:
  User-specified:
  - Record participant, dataset, searched entry and time taken.

  Implementation-discovered:
  - Two on-disk field namings exist (German legacy keys and English keys).
    The struct holds the canonical fields only; mapping lives in internal/output.

ARCHITECTURE INTEGRATION:
  - Used by: internal/trial, internal/output, internal/analysis
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Time is stored as float seconds to match the log format.

USAGE:
  rec := model.ResultRecord{Participant: "Ada", Dataset: "synthetic_data", Entry: "target_entry", Time: 3.2}

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add them here and update the codecs in internal/output.

RELATED FILES:
  - internal/output/json.go
  - internal/output/csv.go

MAINTENANCE:
  - Update when the record schema grows.
*/

package model

import (
	"time"
)

// ResultRecord represents the outcome of a single finished trial.
type ResultRecord struct {
	Participant string  `json:"participant"`
	Dataset     string  `json:"dataset"`
	Entry       string  `json:"entry"`
	Time        float64 `json:"time"` // seconds
}

// Duration returns Time as a time.Duration.
func (r ResultRecord) Duration() time.Duration {
	return time.Duration(r.Time * float64(time.Second))
}
