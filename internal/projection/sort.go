package projection

import (
	"fmt"
	"strings"
)

type SortMode string

const (
	SortDefault         SortMode = "default"
	SortAlphabetical    SortMode = "alphabetical"
	SortIncompleteFirst SortMode = "status"
)

var sortCycle = []SortMode{SortDefault, SortAlphabetical, SortIncompleteFirst}

func (m SortMode) IsValid() bool {
	switch m {
	case SortDefault, SortAlphabetical, SortIncompleteFirst:
		return true
	default:
		return false
	}
}

func (m SortMode) Label() string {
	switch m {
	case SortAlphabetical:
		return "Alphabetically"
	case SortIncompleteFirst:
		return "Incomplete First"
	default:
		return "Insertion order"
	}
}

// Next returns the mode after m in selector order, wrapping around.
func (m SortMode) Next() SortMode {
	for i, mode := range sortCycle {
		if mode == m {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return SortDefault
}

func ParseSortMode(raw string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "default", "none", "insertion":
		return SortDefault, nil
	case "alphabetical", "alpha", "az", "a-z":
		return SortAlphabetical, nil
	case "status", "incomplete", "incompletefirst", "statusincompletefirst":
		return SortIncompleteFirst, nil
	default:
		return "", fmt.Errorf("projection: unknown sort mode %q", raw)
	}
}
