package models

import "fmt"

// BackendType tags a remote storage backend implementation.
type BackendType int

const (
	// BackendNone means no backend is configured.
	BackendNone BackendType = iota

	// BackendGoogleDrive stores records in the Drive appDataFolder of the user.
	BackendGoogleDrive

	// BackendWebDAV stores records on a self-hosted WebDAV server.
	BackendWebDAV

	// BackendServer stores records on a self-hosted go-pass-keeper server.
	BackendServer

	// BackendPostgres stores records in a table of a self-hosted PostgreSQL database.
	BackendPostgres

	// BackendLocalFolder stores records in a bbolt file inside a folder that is
	// replicated by some other means (removable drive, desktop sync client).
	BackendLocalFolder
)

var backendTypeNames = map[BackendType]string{
	BackendNone:        "NONE",
	BackendGoogleDrive: "GOOGLE_DRIVE",
	BackendWebDAV:      "WEBDAV",
	BackendServer:      "SERVER",
	BackendPostgres:    "POSTGRES",
	BackendLocalFolder: "LOCAL_FOLDER",
}

// AllBackendTypes returns every concrete backend type, NONE excluded.
func AllBackendTypes() []BackendType {
	return []BackendType{
		BackendGoogleDrive,
		BackendWebDAV,
		BackendServer,
		BackendPostgres,
		BackendLocalFolder,
	}
}

func (t BackendType) String() string {
	if name, ok := backendTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BackendType(%d)", int(t))
}

// ParseBackendType converts the persisted string form back into a BackendType.
// The empty string maps to BackendNone.
func ParseBackendType(s string) (BackendType, error) {
	if s == "" {
		return BackendNone, nil
	}
	for t, name := range backendTypeNames {
		if name == s {
			return t, nil
		}
	}
	return BackendNone, fmt.Errorf("unknown backend type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t BackendType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *BackendType) UnmarshalText(b []byte) error {
	parsed, err := ParseBackendType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// BackendDescriptor is everything needed to construct a backend without
// talking to the network.
//
// Credentials hold secrets (passwords, OAuth tokens) and are stored apart
// from CustomSettings under CredentialsRef.
type BackendDescriptor struct {
	BackendType    BackendType       `json:"backend_type"`
	CredentialsRef string            `json:"credentials_ref"`
	Credentials    map[string]string `json:"-"`
	CustomSettings map[string]string `json:"custom_settings"`
}

// Setting returns a value from CustomSettings or Credentials, settings first.
func (d BackendDescriptor) Setting(key string) string {
	if v, ok := d.CustomSettings[key]; ok {
		return v
	}
	return d.Credentials[key]
}

// Wipe clears credentials and settings in place.
func (d *BackendDescriptor) Wipe() {
	for k := range d.Credentials {
		d.Credentials[k] = ""
		delete(d.Credentials, k)
	}
	for k := range d.CustomSettings {
		delete(d.CustomSettings, k)
	}
	d.BackendType = BackendNone
	d.CredentialsRef = ""
}
