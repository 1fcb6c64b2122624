package runner

import (
	"github.com/gziptool/gziptool/internal/engine/storage"
)

type LocationKind string

const (
	LocationFile   LocationKind = "file"
	LocationStream LocationKind = "stream"
	LocationS3     LocationKind = "s3"
)

// StreamLocation stands for stdin when reading and stdout when writing.
const StreamLocation = "-"

// Location is a parsed user-supplied path.
type Location struct {
	Kind LocationKind
	// Path is the local path for file locations.
	Path string
	// Bucket and Key are set for s3 locations.
	Bucket string
	Key    string
}

// ParseLocation resolves raw into a file path, the standard stream, or an s3://bucket/key URL.
func ParseLocation(raw string) Location {
	if raw == StreamLocation {
		return Location{Kind: LocationStream, Path: raw}
	}

	if bucket, key, ok := storage.ParseS3URL(raw); ok {
		return Location{Kind: LocationS3, Bucket: bucket, Key: key}
	}

	return Location{Kind: LocationFile, Path: raw}
}

func (l Location) String() string {
	switch l.Kind {
	case LocationS3:
		return "s3://" + l.Bucket + "/" + l.Key
	default:
		return l.Path
	}
}
