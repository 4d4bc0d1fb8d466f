package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/shoal/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds everything needed to resume a session: the seed it was
// bootstrapped from, the tank it runs in and the full ecosystem state.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    uint32 `json:"seed"`

	Tank  components.TankConfig     `json:"tank"`
	State components.EcosystemState `json:"state"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// NewSnapshot captures state. The state is deep-copied.
func NewSnapshot(seed uint32, tank components.TankConfig, state components.EcosystemState, b *Bookmark) *Snapshot {
	return &Snapshot{
		Version:  SnapshotVersion,
		Seed:     seed,
		Tank:     tank,
		State:    state.Clone(),
		Bookmark: b,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.State.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.State.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk and checks the state it carries.
// A snapshot whose state breaks a range invariant is rejected with an error
// wrapping components.ErrInvariant.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot %s: unsupported version %d", path, snapshot.Version)
	}
	if err := snapshot.State.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}

	return &snapshot, nil
}
