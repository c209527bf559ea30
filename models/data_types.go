package models

import "fmt"

// SyncDataType defines which local artefact a SyncRecord carries.
// The value is also part of the remote object name, so renaming a constant
// orphans every record already uploaded under the old name.
type SyncDataType int

const (
	// Vault is the encrypted vault database exported as a single opaque blob.
	Vault SyncDataType = 1

	// Settings is the serialized application settings document.
	Settings SyncDataType = 2
)

// String returns the stable lower-case name of the data type.
func (t SyncDataType) String() string {
	switch t {
	case Vault:
		return "vault"
	case Settings:
		return "settings"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseSyncDataType is the inverse of [SyncDataType.String].
func ParseSyncDataType(s string) (SyncDataType, error) {
	switch s {
	case "vault":
		return Vault, nil
	case "settings":
		return Settings, nil
	default:
		return 0, fmt.Errorf("unknown sync data type %q", s)
	}
}
