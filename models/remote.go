package models

import "time"

// RemoteFile is a single entry returned by a backend listing.
type RemoteFile struct {
	FileName     string    `json:"file_name"`
	ModifiedTime time.Time `json:"modified_time"`
	SizeBytes    int64     `json:"size_bytes"`
}

// StorageQuota reports remote storage usage. TotalBytes is zero when the
// backend has no known limit.
type StorageQuota struct {
	UsedBytes  int64 `json:"used_bytes"`
	TotalBytes int64 `json:"total_bytes"`
}
