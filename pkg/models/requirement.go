// Package models defines the core data types shared across the cdev pipeline.
package models

// Requirement is a single discrete statement extracted from an issue
// description. Requirements are immutable once extracted.
type Requirement struct {
	// ID is the unique identifier for this requirement.
	ID string `json:"id"`
	// Text is the requirement statement, trimmed of list markers.
	Text string `json:"text"`
}
