// Package snapshot implements the export/import boundary: a full-state JSON
// object carrying history, bookmarks, mastery cards, SRS states, the
// question library and the study plan.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/ksen/caseflash/internal/models"
)

// State is the full-state snapshot exchanged at the export/import boundary.
// LifetimeStats appears in exports for display convenience but is never
// trusted on import; it is always recomputed from the imported history.
type State struct {
	History         []models.SessionRecord        `json:"history"`
	Bookmarks       []string                      `json:"bookmarks"`
	MasteryCards    map[string][]models.MasteryCard `json:"masteryCards"`
	SRSStates       map[string]models.ReviewCard  `json:"srsStates"`
	QuestionLibrary map[string]models.Question    `json:"questionLibrary"`
	StudyPlan       json.RawMessage               `json:"studyPlan"`
	LifetimeStats   *models.LifetimeStats         `json:"lifetimeStats,omitempty"`
}

// Marshal serializes a snapshot for export.
func Marshal(state State) ([]byte, error) {
	state = withDefaults(state)
	return json.MarshalIndent(state, "", "  ")
}

// Parse validates and decodes a snapshot. The input must be a JSON object;
// anything else rejects the import atomically. Missing keys are substituted
// with the documented empty defaults, and lifetimeStats is dropped so the
// caller recomputes it from history.
func Parse(data []byte) (*State, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("snapshot is not a JSON object: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("snapshot is not a JSON object")
	}

	var state State
	if err := decodeKey(raw, "history", &state.History); err != nil {
		return nil, err
	}
	if err := decodeKey(raw, "bookmarks", &state.Bookmarks); err != nil {
		return nil, err
	}
	if err := decodeKey(raw, "masteryCards", &state.MasteryCards); err != nil {
		return nil, err
	}
	if err := decodeKey(raw, "srsStates", &state.SRSStates); err != nil {
		return nil, err
	}
	if err := decodeKey(raw, "questionLibrary", &state.QuestionLibrary); err != nil {
		return nil, err
	}
	if plan, ok := raw["studyPlan"]; ok {
		state.StudyPlan = plan
	}

	state = withDefaults(state)
	state.LifetimeStats = nil
	return &state, nil
}

func decodeKey(raw map[string]json.RawMessage, key string, dst any) error {
	data, ok := raw[key]
	if !ok || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid %q in snapshot: %w", key, err)
	}
	return nil
}

func withDefaults(state State) State {
	if state.History == nil {
		state.History = []models.SessionRecord{}
	}
	if state.Bookmarks == nil {
		state.Bookmarks = []string{}
	}
	if state.MasteryCards == nil {
		state.MasteryCards = map[string][]models.MasteryCard{}
	}
	if state.SRSStates == nil {
		state.SRSStates = map[string]models.ReviewCard{}
	}
	if state.QuestionLibrary == nil {
		state.QuestionLibrary = map[string]models.Question{}
	}
	if state.StudyPlan == nil {
		state.StudyPlan = json.RawMessage("null")
	}
	return state
}
