package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionName_IsPrefixedWithSessionAndID(t *testing.T) {
	assert.Equal(t, "session_abc123", collectionName("abc123"))
}

func TestPointUUID_IsDeterministicPerChunkID(t *testing.T) {
	a := pointUUID("chunk-1")
	b := pointUUID("chunk-1")
	c := pointUUID("chunk-2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
