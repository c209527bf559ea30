// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net"
	"strings"
)

// knownCiphers lists the AEAD names accepted by crypto.NewEngine.
var knownCiphers = map[string]bool{
	"":                   true,
	"aes-256-gcm":        true,
	"xchacha20-poly1305": true,
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Field-level requirements live in [ClientConfig.validate]; the structured
// config only has to be well-formed, which caarlos0/env and the flag parser
// already ensure.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}
	if strings.TrimSpace(cfg.Storage.VaultFile) == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncSchedule == "" && cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}
	if cfg.Workers.MaxRetries < 0 || cfg.Workers.KeepVersions < 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.KeyHex == "" && cfg.App.KeyEnv == "" && cfg.App.Passphrase == "" {
		return ErrInvalidAppConfigs
	}
	if !knownCiphers[cfg.App.Cipher] {
		return ErrInvalidAppConfigs
	}

	if cfg.Control.HTTPAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.Control.HTTPAddress); err != nil {
			return ErrInvalidControlConfigs
		}
	}

	return nil
}
