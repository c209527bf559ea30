package envelope

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-pass-sync/models"
)

// FileExt is the extension of every remote sync object.
const FileExt = ".vsync"

// FileInfo is the header recovered from a remote object name.
type FileInfo struct {
	DataType         models.SyncDataType
	LogicalTimestamp int64
	ID               string
}

// FileName returns the remote object name for a record.
func FileName(dataType models.SyncDataType, timestamp int64, id string) string {
	return fmt.Sprintf("%s_%d_%s%s", dataType, timestamp, id, FileExt)
}

// RecordFileName is FileName applied to a record header.
func RecordFileName(r models.SyncRecord) string {
	return FileName(r.DataType, r.LogicalTimestamp, r.ID)
}

// ParseFileName is the inverse of [FileName].
func ParseFileName(name string) (FileInfo, error) {
	base, ok := strings.CutSuffix(name, FileExt)
	if !ok {
		return FileInfo{}, fmt.Errorf("%w: %q has no %s extension", ErrInvalidFileName, name, FileExt)
	}

	parts := strings.SplitN(base, "_", 3)
	if len(parts) != 3 || parts[2] == "" {
		return FileInfo{}, fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}

	dataType, err := models.ParseSyncDataType(parts[0])
	if err != nil {
		return FileInfo{}, fmt.Errorf("%w: %v", ErrInvalidFileName, err)
	}

	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || ts < 0 {
		return FileInfo{}, fmt.Errorf("%w: bad timestamp in %q", ErrInvalidFileName, name)
	}

	return FileInfo{DataType: dataType, LogicalTimestamp: ts, ID: parts[2]}, nil
}
