package engine

import "context"

type Named interface {
	Name() string
	Kind() string
}

type Closer interface {
	Close(context.Context) error
}

const (
	// AutoNameLayout is the timestamp layout used for auto-named archives
	// (DD-MM-YYYY-HH-MM-SS, local time).
	AutoNameLayout = "02-01-2006-15-04-05"

	// AutoArchivePrefix and AutoUnarchivePrefix prefix auto-named outputs.
	AutoArchivePrefix   = "archive_"
	AutoUnarchivePrefix = "unarchive_"
)
