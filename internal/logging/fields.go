// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldFlavor = "flavor"
	FieldJobs   = "jobs"
	FieldAddr   = "addr"
	FieldRoot   = "root"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldBlocks          = "blocks"
	FieldResolved        = "resolved"
	FieldUnresolved      = "unresolved"

	// Synchronization fields.
	FieldSession  = "session"
	FieldState    = "state"
	FieldBlock    = "block"
	FieldNode     = "node"
	FieldOffset   = "offset"
	FieldSpan     = "span"
	FieldStrategy = "strategy"
	FieldKind     = "kind"
	FieldRaw      = "raw"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
