// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client runtime.
//
// It wires the local storages, the sync engine, the optional control API and
// the background workers into a single process lifecycle.
package client
