package dto

import "encoding/json"

// UpdateContentRequest wraps the replacement document for an editable
// content file. Data must itself be valid JSON; the gatekeeper checks
// that before anything touches disk.
type UpdateContentRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}
