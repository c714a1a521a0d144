package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugLog(t *testing.T) {
	log := NewDebugLog(3)

	log.Addf("line %d", 1)
	log.Addf("line %d", 2)
	assert.Equal(t, 2, log.Len())
	assert.Equal(t, 0, log.Dropped())

	log.Addf("line %d", 3)
	log.Addf("line %d", 4)
	log.Addf("line %d", 5)
	assert.Equal(t, 3, log.Len())
	assert.Equal(t, 2, log.Dropped())

	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, log.Drain())
	assert.Equal(t, 0, log.Len())
	assert.Equal(t, 0, log.Dropped())
	assert.Nil(t, log.Drain())

	log.Addf("again")
	assert.Equal(t, []string{"again"}, log.Drain())
}

func TestDebugLog_DefaultLimit(t *testing.T) {
	log := NewDebugLog(0)
	for i := 0; i < DefaultDebugLogSize+10; i++ {
		log.Addf("%d", i)
	}

	lines := log.Drain()
	assert.Len(t, lines, DefaultDebugLogSize)
	assert.Equal(t, "10", lines[0])
}

func TestDebugLog_Nil(t *testing.T) {
	var log *DebugLog

	log.Addf("ignored")
	assert.Equal(t, 0, log.Len())
	assert.Equal(t, 0, log.Dropped())
	assert.Nil(t, log.Drain())
}
