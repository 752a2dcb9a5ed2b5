package menu

import (
	"log"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// State is the persisted expand/collapse state of the lesson menu, saved
// to <state dir>/menu-state.json:
//
//	{
//	  "version": 1,
//	  "expanded": {
//	    "learning/3": true,
//	    "practice": false
//	  }
//	}
//
// Only nodes that differ from the default are stored. Categories default to
// expanded, lessons to collapsed. Unknown IDs are ignored, and a corrupt
// or missing file means defaults.
type State struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`
}

// StateVersion is the current schema version.
const StateVersion = 1

const stateFileName = "menu-state.json"

// StatePath returns the state file inside dir.
func StatePath(dir string) string {
	return filepath.Join(dir, stateFileName)
}

func defaultExpanded(n *Node) bool {
	return n.Kind == KindCategory
}

// SetStateDir enables persistence in dir and applies any saved state.
func (t *Tree) SetStateDir(dir string) {
	t.stateDir = dir
	t.loadState()
}

// Snapshot returns the current expand state.
func (t *Tree) Snapshot() State {
	state := State{Version: StateVersion, Expanded: make(map[string]bool)}
	for id, node := range t.byID {
		if node.Kind == KindExercise {
			continue
		}
		if node.Expanded != defaultExpanded(node) {
			state.Expanded[id] = node.Expanded
		}
	}
	return state
}

// Apply sets the expand state of known nodes.
func (t *Tree) Apply(state State) {
	if len(state.Expanded) == 0 {
		return
	}
	for id, expanded := range state.Expanded {
		if node, ok := t.byID[id]; ok && node.Kind != KindExercise {
			node.Expanded = expanded
		}
	}
	t.rebuildFlatList()
}

func (t *Tree) saveState() {
	if t.stateDir == "" {
		return
	}
	data, err := json.MarshalIndent(t.Snapshot(), "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal menu state: %v", err)
		return
	}
	if err := os.MkdirAll(t.stateDir, 0o755); err != nil {
		log.Printf("warning: failed to create state directory %s: %v", t.stateDir, err)
		return
	}
	path := StatePath(t.stateDir)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("warning: failed to write menu state to %s: %v", path, err)
	}
}

func (t *Tree) loadState() {
	if t.stateDir == "" {
		return
	}
	data, err := os.ReadFile(StatePath(t.stateDir))
	if err != nil {
		return
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: invalid menu state file, using defaults: %v", err)
		return
	}
	if state.Version > StateVersion {
		log.Printf("warning: menu state version %d is newer than supported, using defaults", state.Version)
		return
	}
	t.Apply(state)
}
