// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/filevault/internal/validation"
)

// DecryptFileRequest contains the parameters for decrypting a stored file.
// The artifact id is extracted from the URL parameter, not the request body.
type DecryptFileRequest struct {
	// Key optionally overrides the configured master key. Accepted encodings:
	// raw 32 bytes, 64 hex characters, or URL-safe base64 of 32 bytes.
	Key string `json:"key"`
}

// Validate checks if the decrypt file request is valid.
func (r *DecryptFileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key, customValidation.MasterKeyEncoding),
	)
}
