package audit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDAllocatorSequence(t *testing.T) {
	ids := NewIDAllocator(1)

	assert.Equal(t, "00001", ids.Next())
	assert.Equal(t, "00002", ids.Next())
	assert.Equal(t, "00003", ids.Next())
}

func TestIDAllocatorStartOffset(t *testing.T) {
	ids := NewIDAllocator(120)

	assert.Equal(t, "00120", ids.Next())
	assert.Equal(t, "00121", ids.Next())
}

func TestIDAllocatorContiguousWithoutRepeats(t *testing.T) {
	ids := NewIDAllocator(7)

	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 100; i++ {
		id := ids.Next()
		assert.False(t, seen[id], "id %s repeated", id)
		assert.Greater(t, id, prev, "id %s not increasing", id)
		assert.Equal(t, fmt.Sprintf("%05d", 7+i), id)
		seen[id] = true
		prev = id
	}
}

func TestIDAllocatorWidensPastFiveDigits(t *testing.T) {
	// The counter never wraps or resets; past 99999 it simply widens.
	ids := NewIDAllocator(99999)

	assert.Equal(t, "99999", ids.Next())
	assert.Equal(t, "100000", ids.Next())
}
