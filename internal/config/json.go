package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the JSON file layout.
type StructuredJSONConfig struct {
	App struct {
		Cipher     string `json:"cipher"`
		KeyHex     string `json:"key_hex"`
		KeyEnv     string `json:"key_env"`
		Passphrase string `json:"passphrase"`
		DataType   string `json:"data_type"`
		Version    string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Vault struct {
			File string `json:"file"`
		} `json:"vault,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncSchedule string   `json:"sync_schedule"`
		SyncInterval Duration `json:"sync_interval"`
		MaxRetries   int      `json:"max_retries"`
		WatchVault   bool     `json:"watch_vault"`
		KeepVersions int      `json:"keep_versions"`
	} `json:"workers,omitempty"`

	Control struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		Token          string   `json:"token"`
	} `json:"control,omitempty"`

	Log struct {
		File string `json:"file"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Cipher:     jsonCfg.App.Cipher,
			KeyHex:     jsonCfg.App.KeyHex,
			KeyEnv:     jsonCfg.App.KeyEnv,
			Passphrase: jsonCfg.App.Passphrase,
			DataType:   jsonCfg.App.DataType,
			Version:    jsonCfg.App.Version,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Vault: Vault{File: jsonCfg.Storage.Vault.File},
		},
		Adapter: Adapter{
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncSchedule: jsonCfg.Workers.SyncSchedule,
			SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval),
			MaxRetries:   jsonCfg.Workers.MaxRetries,
			WatchVault:   jsonCfg.Workers.WatchVault,
			KeepVersions: jsonCfg.Workers.KeepVersions,
		},
		Control: Control{
			HTTPAddress:    jsonCfg.Control.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Control.RequestTimeout),
			Token:          jsonCfg.Control.Token,
		},
		Log:          Log{File: jsonCfg.Log.File},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
