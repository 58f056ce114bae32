package minio

import (
	"io"
	"time"
)

// Config holds MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// ObjectInfo is the metadata of a stored object.
type ObjectInfo struct {
	Bucket       string            `json:"bucket"`
	Object       string            `json:"object"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	ETag         string            `json:"etag"`
	LastModified time.Time         `json:"last_modified"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// UploadRequest describes an object to store.
type UploadRequest struct {
	Bucket      string
	Object      string
	Reader      io.Reader
	Size        int64
	ContentType string
	Metadata    map[string]string
}
