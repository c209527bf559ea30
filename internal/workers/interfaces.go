// Package workers runs the background activities of the sync client: the
// periodic sync job, the vault file watcher and the control API server.
// The Workers aggregate starts them together and stops them together.
package workers

import "context"

// Worker is a background activity of the client.
//
// Run blocks until ctx is cancelled, returning nil, or until the worker
// fails, returning the error. A failing worker stops its siblings.
type Worker interface {
	Run(ctx context.Context) error
}
