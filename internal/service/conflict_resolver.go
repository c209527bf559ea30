package service

import "github.com/MKhiriev/go-pass-sync/models"

// ConflictResolver picks the winner of a [models.ConflictCase]. Both methods
// are pure.
type ConflictResolver interface {
	// Resolve applies strategy. MERGE and MANUAL behave like NEWEST_WINS;
	// an unknown strategy also falls back to NEWEST_WINS.
	Resolve(strategy models.ConflictStrategy, c models.ConflictCase) (models.SyncRecord, models.ConflictSide)

	// ResolveWith returns the record of the explicitly chosen side.
	ResolveWith(c models.ConflictCase, side models.ConflictSide) models.SyncRecord
}

type conflictResolver struct{}

// NewConflictResolver returns the default [ConflictResolver].
func NewConflictResolver() ConflictResolver {
	return conflictResolver{}
}

func (conflictResolver) Resolve(strategy models.ConflictStrategy, c models.ConflictCase) (models.SyncRecord, models.ConflictSide) {
	switch strategy {
	case models.StrategyLocalWins:
		return c.LocalVersion, models.SideLocal
	case models.StrategyRemoteWins:
		return c.RemoteVersion, models.SideRemote
	default:
		// NEWEST_WINS, MERGE, MANUAL
		if c.RemoteVersion.LogicalTimestamp > c.LocalVersion.LogicalTimestamp {
			return c.RemoteVersion, models.SideRemote
		}
		return c.LocalVersion, models.SideLocal
	}
}

func (conflictResolver) ResolveWith(c models.ConflictCase, side models.ConflictSide) models.SyncRecord {
	if side == models.SideRemote {
		return c.RemoteVersion
	}
	return c.LocalVersion
}
