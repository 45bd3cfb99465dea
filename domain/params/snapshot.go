package params

// Snapshot captures the value and constant flag of a group of parameters so
// that temporary mutation can be undone on every exit path. Capture the
// snapshot at the point of mutation and defer Restore immediately.
type Snapshot struct {
	entries []snapshotEntry
}

type snapshotEntry struct {
	param    *Parameter
	value    float64
	err      float64
	constant bool
}

// Capture records the current state of every parameter in the set
func Capture(s *Set) *Snapshot {
	snap := &Snapshot{entries: make([]snapshotEntry, 0, s.Len())}
	for _, p := range s.Params() {
		snap.entries = append(snap.entries, snapshotEntry{
			param:    p,
			value:    p.Value(),
			err:      p.Error(),
			constant: p.IsConstant(),
		})
	}
	return snap
}

// CaptureOne records the current state of a single parameter
func CaptureOne(p *Parameter) *Snapshot {
	return &Snapshot{entries: []snapshotEntry{{
		param:    p,
		value:    p.Value(),
		err:      p.Error(),
		constant: p.IsConstant(),
	}}}
}

// Append adds a parameter's current state to the snapshot
func (s *Snapshot) Append(p *Parameter) {
	s.entries = append(s.entries, snapshotEntry{
		param:    p,
		value:    p.Value(),
		err:      p.Error(),
		constant: p.IsConstant(),
	})
}

// Restore writes the captured values and flags back. Safe to call more than
// once; later calls re-apply the same captured state.
func (s *Snapshot) Restore() {
	for _, e := range s.entries {
		e.param.SetValue(e.value)
		e.param.SetError(e.err)
		e.param.SetConstant(e.constant)
	}
}

// Len returns the number of captured parameters
func (s *Snapshot) Len() int {
	return len(s.entries)
}
