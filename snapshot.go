package numdawg

// Snapshot is a structural view of an Automaton suitable for serializing with
// encoding/json or gopkg.in/yaml.v3.
type Snapshot struct {
	Numbered bool            `json:"numbered" yaml:"numbered"`
	Words    int             `json:"words" yaml:"words"`
	States   []StateSnapshot `json:"states" yaml:"states"`
}

// StateSnapshot describes one state of a Snapshot.
type StateSnapshot struct {
	ID          StateID              `json:"id" yaml:"id"`
	Final       bool                 `json:"final,omitempty" yaml:"final,omitempty"`
	Transitions []TransitionSnapshot `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// TransitionSnapshot describes one transition of a Snapshot. Labels are kept
// as strings so they stay readable.
type TransitionSnapshot struct {
	Label     string  `json:"label" yaml:"label"`
	Target    StateID `json:"target" yaml:"target"`
	Increment int     `json:"increment,omitempty" yaml:"increment,omitempty"`
}

// Snapshot returns the structure of the automaton.
func (a *Automaton) Snapshot() Snapshot {
	snap := Snapshot{
		Numbered: a.numbered,
		Words:    a.numWords,
		States:   make([]StateSnapshot, a.NumStates()),
	}

	for q := range snap.States {
		st := StateSnapshot{
			ID:    StateID(q),
			Final: a.IsFinal(StateID(q)),
		}
		for _, t := range a.edges[a.offsets[q]:a.offsets[q+1]] {
			st.Transitions = append(st.Transitions, TransitionSnapshot{
				Label:     string(t.Label),
				Target:    t.Target,
				Increment: t.Increment,
			})
		}
		snap.States[q] = st
	}

	return snap
}
