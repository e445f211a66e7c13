package testutils

import (
	"fmt"
	"sync"
)

// ScriptedRoller returns predetermined die faces in order. It implements
// the rpg-toolkit dice.Roller interface.
type ScriptedRoller struct {
	mu     sync.Mutex
	values []int
	calls  int
}

// NewScriptedRoller creates a roller that yields values in sequence
func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: values}
}

// Roll returns the next scripted value, which must fit the die
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.values) == 0 {
		return 0, fmt.Errorf("scripted roller exhausted after %d rolls", r.calls)
	}
	v := r.values[0]
	if v < 1 || v > size {
		return 0, fmt.Errorf("scripted value %d does not fit d%d", v, size)
	}
	r.values = r.values[1:]
	r.calls++
	return v, nil
}

// RollN returns the next count scripted values
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for range count {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Remaining reports how many scripted values are left
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}
