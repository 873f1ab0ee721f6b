// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import "fmt"

// MissingSourceError reports that the CSV source does not exist.
type MissingSourceError struct {
	Path string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("Cannot find the file '%s'. Aborting.", e.Path)
}

// RowError ties a failure to the CSV line it came from.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
