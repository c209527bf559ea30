package config

import (
	"errors"
	"flag"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from the process arguments.
//
// Flags:
//
//	-a control API address in format [host]:[port]
//	-d local database DSN
//	-v vault file path
//	-c/-config json file path with configs
//	-cipher AEAD cipher name
//	-key-hex hex-encoded vault key
//	-data-type synced data type (vault, settings)
//	-schedule cron expression of the periodic sync
//	-interval periodic sync interval (e.g., "15m")
//	-max-retries retries of a retryable sync failure
//	-watch watch the vault file for changes
//	-keep remote versions kept by cleanup
//	-request-timeout backend request timeout (e.g., "30s", "1m")
//	-log-file log file path
//	-once perform a single sync and exit
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-pass-sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var controlAddress NetAddress
	var databaseDSN, vaultFile, jsonConfigPath string
	var cipher, keyHex, dataType string
	var schedule string
	var interval, requestTimeout time.Duration
	var maxRetries, keep int
	var watch, once bool
	var logFile string

	fs.Var(&controlAddress, "a", "Control API address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Local database DSN")
	fs.StringVar(&vaultFile, "v", "", "Vault file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cipher, "cipher", "", "AEAD cipher (aes-256-gcm, xchacha20-poly1305)")
	fs.StringVar(&keyHex, "key-hex", "", "Hex-encoded vault key")
	fs.StringVar(&dataType, "data-type", "", "Synced data type (vault, settings)")
	fs.StringVar(&schedule, "schedule", "", "Cron expression of the periodic sync")
	fs.DurationVar(&interval, "interval", 0, "Periodic sync interval (e.g., 15m)")
	fs.IntVar(&maxRetries, "max-retries", 0, "Retries of a retryable sync failure")
	fs.BoolVar(&watch, "watch", false, "Watch the vault file for changes")
	fs.IntVar(&keep, "keep", 0, "Remote versions kept by cleanup")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Backend request timeout (e.g., 30s, 1m)")
	fs.StringVar(&logFile, "log-file", "", "Log file path")
	fs.BoolVar(&once, "once", false, "Perform a single sync and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			Cipher:   cipher,
			KeyHex:   keyHex,
			DataType: dataType,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Vault: Vault{File: vaultFile},
		},
		Adapter: Adapter{RequestTimeout: requestTimeout},
		Workers: Workers{
			SyncSchedule: schedule,
			SyncInterval: interval,
			MaxRetries:   maxRetries,
			WatchVault:   watch,
			KeepVersions: keep,
			Once:         once,
		},
		Control:      Control{HTTPAddress: controlAddress.String()},
		Log:          Log{File: logFile},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
