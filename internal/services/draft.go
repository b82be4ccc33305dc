package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	types "github.com/peiassist/backend/internal/domain"
)

// PeiDraft is the single authoritative mutable document for the current editor
// session. All reads and writes go through its lock; snapshots are taken
// atomically so the autosave reconciler never sees a half-applied mutation.
type PeiDraft struct {
	mu          sync.Mutex
	id          *uuid.UUID
	data        map[string]string
	aiGenerated map[string]struct{}
	smart       map[string]types.GoalAnalysis

	// Per-field edit counters. A generate task captures the counter before
	// enqueueing; a late result for a field edited meanwhile is discarded.
	versions map[string]uint64
}

// DraftSnapshot is a consistent copy of the draft at one instant.
type DraftSnapshot struct {
	ID          *uuid.UUID                    `json:"id"`
	Data        map[string]string             `json:"data"`
	AIGenerated []string                      `json:"ai_generated_fields"`
	Smart       map[string]types.GoalAnalysis `json:"smart_analysis"`
}

func NewPeiDraft() *PeiDraft {
	return &PeiDraft{
		data:        map[string]string{},
		aiGenerated: map[string]struct{}{},
		smart:       map[string]types.GoalAnalysis{},
		versions:    map[string]uint64{},
	}
}

// SetField records a user edit: the new content and the provenance removal
// happen in the same mutation, with no interleaving possible.
func (d *PeiDraft) SetField(fieldID, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data[fieldID] = value
	delete(d.aiGenerated, fieldID)
	d.versions[fieldID]++
}

func (d *PeiDraft) Field(fieldID string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data[fieldID]
}

// FieldVersion returns the current edit counter for a field.
func (d *PeiDraft) FieldVersion(fieldID string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.versions[fieldID]
}

// ApplyGenerated installs a model result for a field and marks its provenance,
// unless the field was edited after the task captured version (stale result,
// discarded). Empty results are applied but never marked, keeping the
// provenance set a subset of the non-empty content map.
func (d *PeiDraft) ApplyGenerated(fieldID, text string, version uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.versions[fieldID] != version {
		return false
	}
	d.data[fieldID] = text
	d.versions[fieldID]++
	if strings.TrimSpace(text) == "" {
		delete(d.aiGenerated, fieldID)
	} else {
		d.aiGenerated[fieldID] = struct{}{}
	}
	return true
}

// AppendActivities adds a suggestion block to the aggregation field, separated
// by a blank line. The append is unconditional and never deduplicated, and the
// aggregation field is not marked AI-generated.
func (d *PeiDraft) AppendActivities(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur := d.data[types.ActivitiesField]
	if strings.TrimSpace(cur) == "" {
		d.data[types.ActivitiesField] = text
	} else {
		d.data[types.ActivitiesField] = cur + "\n\n" + text
	}
	d.versions[types.ActivitiesField]++
}

func (d *PeiDraft) SetSmart(fieldID string, analysis types.GoalAnalysis) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.smart[fieldID] = analysis
}

func (d *PeiDraft) ID() *uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.id == nil {
		return nil
	}
	v := *d.id
	return &v
}

// SetID assigns the durable identifier after the first successful save. Once
// assigned it never changes for the session.
func (d *PeiDraft) SetID(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.id != nil || id == uuid.Nil {
		return
	}
	v := id
	d.id = &v
}

// Snapshot copies the whole draft under the lock.
func (d *PeiDraft) Snapshot() DraftSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	data := make(map[string]string, len(d.data))
	for k, v := range d.data {
		data[k] = v
	}
	generated := make([]string, 0, len(d.aiGenerated))
	for k := range d.aiGenerated {
		generated = append(generated, k)
	}
	sort.Strings(generated)
	smart := make(map[string]types.GoalAnalysis, len(d.smart))
	for k, v := range d.smart {
		smart[k] = v
	}

	snap := DraftSnapshot{Data: data, AIGenerated: generated, Smart: smart}
	if d.id != nil {
		v := *d.id
		snap.ID = &v
	}
	return snap
}

// LoadRecord replaces the draft with a persisted plan, including its
// identifier, so subsequent autosaves update the same record.
func (d *PeiDraft) LoadRecord(row *types.Pei) error {
	data := map[string]string{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return fmt.Errorf("decode plan data: %w", err)
		}
	}
	var generated []string
	if len(row.AIGeneratedFields) > 0 {
		if err := json.Unmarshal(row.AIGeneratedFields, &generated); err != nil {
			return fmt.Errorf("decode plan provenance: %w", err)
		}
	}
	smart := map[string]types.GoalAnalysis{}
	if len(row.SmartAnalysis) > 0 {
		if err := json.Unmarshal(row.SmartAnalysis, &smart); err != nil {
			return fmt.Errorf("decode plan analyses: %w", err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	id := row.ID
	d.id = &id
	d.data = data
	d.aiGenerated = map[string]struct{}{}
	for _, f := range generated {
		if strings.TrimSpace(data[f]) != "" {
			d.aiGenerated[f] = struct{}{}
		}
	}
	d.smart = smart
	d.versions = map[string]uint64{}
	return nil
}

// Clear resets the draft for a new document. The next successful autosave will
// create a fresh record.
func (d *PeiDraft) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.id = nil
	d.data = map[string]string{}
	d.aiGenerated = map[string]struct{}{}
	d.smart = map[string]types.GoalAnalysis{}
	d.versions = map[string]uint64{}
}
