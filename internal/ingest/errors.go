package ingest

import "errors"

// Ingestion errors.
var (
	// ErrNoHeader means no row in the sheet looked like a header.
	ErrNoHeader = errors.New("no header row found")
	// ErrMissingIdentityColumn means the column naming each record was not
	// found, so no row can be trusted.
	ErrMissingIdentityColumn = errors.New("identifying name column not found")
)
