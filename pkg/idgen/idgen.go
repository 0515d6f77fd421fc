// Package idgen generates identifiers for saved reports and requests.
package idgen

import (
	"github.com/rs/xid"
)

// NewID generates a globally unique, time-sortable, URL-safe 20-character ID
func NewID() string {
	return xid.New().String()
}

// NewReportID generates an ID for a saved report
func NewReportID() string {
	return NewID()
}

// NewRequestID generates an ID for request tracing
func NewRequestID() string {
	return NewID()
}

// IsValid reports whether id is a well-formed xid
func IsValid(id string) bool {
	_, err := xid.FromString(id)
	return err == nil
}
