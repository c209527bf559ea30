package service

import (
	"testing"

	"github.com/MKhiriev/go-pass-sync/models"
	"github.com/stretchr/testify/assert"
)

func conflictAt(localTS, remoteTS int64) models.ConflictCase {
	return models.ConflictCase{
		LocalVersion:  models.SyncRecord{ID: "local", LogicalTimestamp: localTS},
		RemoteVersion: models.SyncRecord{ID: "remote", LogicalTimestamp: remoteTS},
	}
}

func TestConflictResolver_Resolve(t *testing.T) {
	r := NewConflictResolver()

	tests := []struct {
		name     string
		strategy models.ConflictStrategy
		c        models.ConflictCase
		wantID   string
		wantSide models.ConflictSide
	}{
		{"local wins ignores age", models.StrategyLocalWins, conflictAt(1, 9), "local", models.SideLocal},
		{"remote wins ignores age", models.StrategyRemoteWins, conflictAt(9, 1), "remote", models.SideRemote},
		{"newest remote", models.StrategyNewestWins, conflictAt(1, 9), "remote", models.SideRemote},
		{"newest local", models.StrategyNewestWins, conflictAt(9, 1), "local", models.SideLocal},
		{"tie goes to local", models.StrategyNewestWins, conflictAt(5, 5), "local", models.SideLocal},
		{"merge behaves like newest", models.StrategyMerge, conflictAt(1, 9), "remote", models.SideRemote},
		{"manual behaves like newest", models.StrategyManual, conflictAt(9, 1), "local", models.SideLocal},
		{"unknown behaves like newest", models.ConflictStrategy("BOGUS"), conflictAt(1, 9), "remote", models.SideRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, side := r.Resolve(tt.strategy, tt.c)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantSide, side)

			// same input, same answer
			again, againSide := r.Resolve(tt.strategy, tt.c)
			assert.Equal(t, got, again)
			assert.Equal(t, side, againSide)
		})
	}
}

func TestConflictResolver_ResolveWith(t *testing.T) {
	r := NewConflictResolver()
	c := conflictAt(1, 2)

	assert.Equal(t, "local", r.ResolveWith(c, models.SideLocal).ID)
	assert.Equal(t, "remote", r.ResolveWith(c, models.SideRemote).ID)
}
