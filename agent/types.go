// Package agent implements the passphrase-caching daemon: a single-user
// background process listening on a Unix-domain socket that holds
// decrypted passphrases keyed by shrine uuid and serves local clients
// (spec.md §4.H–§4.J).
package agent

import "github.com/google/uuid"

// pidResponse is not used on the wire: GET /pid answers with the bare pid
// number, which is itself a JSON value.
type pidResponse struct {
	Pid int `json:"pid"`
}

// putPasswordRequest is the body of PUT /passwords.
type putPasswordRequest struct {
	UUID     uuid.UUID `json:"uuid"`
	Password string    `json:"password"`
}

// keyRequest is the body of PUT /keys/{key}?path=....
type keyRequest struct {
	Secret string `json:"secret"`
	Mode   int    `json:"mode"`
}

// keyResponse is the body of a successful GET /keys/{key}?path=....
type keyResponse struct {
	Secret string `json:"secret"`
	Mode   int    `json:"mode"`
}

// keysResponse is the body of a successful GET /keys?path=... listing.
type keysResponse struct {
	Keys []string `json:"keys"`
}

// rmResponse is the body of a successful DELETE /keys/{key}?path=....
type rmResponse struct {
	Removed bool `json:"removed"`
}

// errorResponse is the JSON error body shape used for every non-2xx
// response (spec.md §6 "Error payloads over the wire").
type errorResponse struct {
	Error string     `json:"error"`
	UUID  *uuid.UUID `json:"uuid,omitempty"`
	Path  string     `json:"path,omitempty"`
}
