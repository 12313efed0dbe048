package pipeline

import (
	"fmt"
	"os"
)

// MaxBytes is the size budget for the release archive.
const MaxBytes int64 = 13 * 1024

// Budget compares an archive's size with the maximum.
type Budget struct {
	Size int64
	Max  int64
}

// CheckBudget stats the written archive.
func CheckBudget(path string, max int64) (Budget, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Budget{}, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return Budget{Size: info.Size(), Max: max}, nil
}

// Percent is Size as a rounded percentage of Max.
func (b Budget) Percent() int {
	return percent(b.Size, b.Max)
}

// Remaining is the headroom left; negative when over budget.
func (b Budget) Remaining() int64 {
	return b.Max - b.Size
}

// Over reports whether the archive has reached the budget.
func (b Budget) Over() bool {
	return b.Size >= b.Max
}
