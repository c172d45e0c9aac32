package mm

import (
	"zihai/kernel"
	"zihai/kernel/kfmt"
)

var (
	// panicFn is mocked by tests.
	panicFn = kfmt.Panic

	errLevelOutOfRange = &kernel.Error{Module: "mm", Message: "page level does not exist in paging mode"}
	errReversedLevels  = &kernel.Error{Module: "mm", Message: "level iterator bounds are reversed"}
)

// Level is the index of a page table level. Higher levels map larger blocks;
// level 0 is the lowest possible leaf level of any paging mode.
type Level uint8

// LeafLevel is the lowest leaf level.
const LeafLevel = Level(0)

// LevelIter produces an ordered sequence of page levels, either towards the
// root (rising) or towards the leaf (falling). The final bound can be
// included or excluded.
type LevelIter struct {
	remainingMin, remainingMax Level
	includeEnd                 bool
	towardsHigher              bool
}

// RisingIncludes returns an iterator over begin, begin+1, ..., end.
func RisingIncludes(begin, end Level) LevelIter {
	return newLevelIter(begin, end, true, true)
}

// RisingExcludes returns an iterator over begin, begin+1, ..., end-1.
func RisingExcludes(begin, end Level) LevelIter {
	return newLevelIter(begin, end, true, false)
}

// FallingIncludes returns an iterator over begin, begin-1, ..., end.
func FallingIncludes(begin, end Level) LevelIter {
	return newLevelIter(end, begin, false, true)
}

// FallingExcludes returns an iterator over begin, begin-1, ..., end+1.
func FallingExcludes(begin, end Level) LevelIter {
	return newLevelIter(end, begin, false, false)
}

func newLevelIter(min, max Level, towardsHigher, includeEnd bool) LevelIter {
	if min > max {
		kfmt.Printf("[mm] invalid level range: %d > %d\n", min, max)
		panicFn(errReversedLevels)
		return LevelIter{}
	}

	return LevelIter{
		remainingMin:  min,
		remainingMax:  max,
		includeEnd:    includeEnd,
		towardsHigher: towardsHigher,
	}
}

// Next returns the next level in the sequence. The second return value is
// false once the sequence is exhausted.
func (it *LevelIter) Next() (Level, bool) {
	if it.remainingMin == it.remainingMax {
		if !it.includeEnd {
			return 0, false
		}
		it.includeEnd = false
		return it.remainingMin, true
	}

	if it.towardsHigher {
		it.remainingMin++
		return it.remainingMin - 1, true
	}

	it.remainingMax--
	return it.remainingMax + 1, true
}

// Collect drains the iterator and returns the remaining levels.
func (it LevelIter) Collect() []Level {
	var levels []Level
	for lvl, ok := it.Next(); ok; lvl, ok = it.Next() {
		levels = append(levels, lvl)
	}
	return levels
}
