package flora

import (
	"encoding/json"
	"fmt"
)

// Snapshot represents a point-in-time capture of a garden's state.
// It includes the garden ID, the tick counter, and the full plant.
type Snapshot struct {
	GardenID GardenID `json:"garden_id"`
	Tick     int64    `json:"tick"`
	Plant    Plant    `json:"plant"`
}

// ValidateSnapshot performs validation checks on a snapshot.
// It verifies that:
//   - All part IDs are non-empty and unique
//   - All part types, growth rates, and traits are vocabulary members
//
// Returns an error if validation fails, nil otherwise.
func ValidateSnapshot(snapshot Snapshot) error {
	seenIDs := make(map[PartID]struct{})

	for i, part := range snapshot.Plant.Parts {
		if part.ID == "" {
			return fmt.Errorf("part at index %d has empty ID", i)
		}
		if _, exists := seenIDs[part.ID]; exists {
			return fmt.Errorf("duplicate part ID: %s", part.ID)
		}
		seenIDs[part.ID] = struct{}{}

		if !part.Type.Valid() {
			return fmt.Errorf("part %s has invalid type: %s", part.ID, part.Type)
		}
		if !part.GrowthRate.Valid() {
			return fmt.Errorf("part %s has invalid growth rate: %s", part.ID, part.GrowthRate)
		}
		if part.Special != "" && !part.Special.Valid() {
			return fmt.Errorf("part %s has invalid special trait: %s", part.ID, part.Special)
		}
	}

	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON format.
// Returns the JSON bytes and any encoding error.
func EncodeSnapshotJSON(snapshot Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON format.
// Returns the decoded snapshot and any decoding error.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}
