package models

// SyncStatus is the externally visible state of a sync session.
type SyncStatus string

const (
	StatusNeverSynced SyncStatus = "NEVER_SYNCED"
	StatusPending     SyncStatus = "PENDING"
	StatusSyncing     SyncStatus = "SYNCING"
	StatusSynced      SyncStatus = "SYNCED"
	StatusError       SyncStatus = "ERROR"
	StatusConflict    SyncStatus = "CONFLICT"
)

// ConflictCase holds both sides of a divergence between the local vault and
// the newest remote record. It is produced by full sync and consumed by the
// resolver.
type ConflictCase struct {
	LocalVersion  SyncRecord `json:"local_version"`
	RemoteVersion SyncRecord `json:"remote_version"`
}

// ConflictStrategy selects how a ConflictCase is resolved.
type ConflictStrategy string

const (
	StrategyLocalWins  ConflictStrategy = "LOCAL_WINS"
	StrategyRemoteWins ConflictStrategy = "REMOTE_WINS"
	StrategyNewestWins ConflictStrategy = "NEWEST_WINS"
	// StrategyMerge currently behaves like StrategyNewestWins.
	StrategyMerge ConflictStrategy = "MERGE"
	// StrategyManual currently behaves like StrategyNewestWins. Callers that
	// want a user decision use an explicit ConflictSide instead.
	StrategyManual ConflictStrategy = "MANUAL"
)

// ParseConflictStrategy validates s against the known strategies.
func ParseConflictStrategy(s string) (ConflictStrategy, bool) {
	switch st := ConflictStrategy(s); st {
	case StrategyLocalWins, StrategyRemoteWins, StrategyNewestWins, StrategyMerge, StrategyManual:
		return st, true
	default:
		return "", false
	}
}

// ConflictSide names the winning side of a resolved conflict.
type ConflictSide string

const (
	SideLocal  ConflictSide = "LOCAL"
	SideRemote ConflictSide = "REMOTE"
)
