package dice

import (
	"math/rand/v2"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-gm/internal/errors"
)

// RandomRoller is a non-cryptographic dice.Roller backed by math/rand/v2.
// The top-level generator is safe for concurrent use.
type RandomRoller struct{}

var _ dice.Roller = (*RandomRoller)(nil)

// NewRandomRoller creates a roller
func NewRandomRoller() *RandomRoller {
	return &RandomRoller{}
}

// Roll returns a uniform value in [1, size]
func (r *RandomRoller) Roll(size int) (int, error) {
	if size < 1 {
		return 0, errors.InvalidArgumentf("invalid die size: %d", size)
	}
	return rand.IntN(size) + 1, nil
}

// RollN rolls count dice of the given size
func (r *RandomRoller) RollN(count, size int) ([]int, error) {
	if count < 1 {
		return nil, errors.InvalidArgumentf("invalid dice count: %d", count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
