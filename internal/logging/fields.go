// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldAddr       = "addr"

	// Configuration fields.
	FieldJobs   = "jobs"
	FieldFormat = "format"
	FieldConfig = "config"

	// Structure fields.
	FieldKind  = "kind"
	FieldKey   = "key"
	FieldDepth = "depth"
	FieldLine  = "line"
	FieldSort  = "sort"
	FieldName  = "name"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesValid      = "files_valid"
	FieldFilesInvalid    = "files_invalid"
	FieldFilesErrored    = "files_errored"

	// Request fields.
	FieldRequestID = "request_id"
	FieldStatus    = "status"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
