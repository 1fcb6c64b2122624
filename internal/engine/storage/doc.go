// Package storage provides the places archives are read from and written to:
// the local filesystem, S3-compatible object storage, and standard streams.
package storage
