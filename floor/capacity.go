package floor

import (
	"strconv"
	"strings"
)

// Capacity ceilings of the two screens that size tables.
const (
	FloorPlanCeiling = 100
	QuickAddCeiling  = 32
)

// PresetCapacities are offered before a custom value.
var PresetCapacities = []int{2, 4, 6, 8}

// ClampCapacity forces v into [1, ceiling].
func ClampCapacity(v, ceiling int) int {
	if ceiling < 1 {
		ceiling = 1
	}
	if v < 1 {
		return 1
	}
	if v > ceiling {
		return ceiling
	}
	return v
}

// ParseCapacity accepts plain digits only and clamps the value to ceiling.
// Signs, decimals and exponents are rejected rather than interpreted.
func ParseCapacity(input string, ceiling int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, validation(ErrInvalidCapacity)
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, validation(ErrInvalidCapacity)
		}
	}
	v, err := strconv.Atoi(input)
	if err != nil {
		// only overflow gets here
		return ClampCapacity(ceiling, ceiling), nil
	}
	return ClampCapacity(v, ceiling), nil
}
