package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePairOrdersByUuidString(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	src, dup := normalizePair(a, b)
	assert.Equal(t, a, src)
	assert.Equal(t, b, dup)

	// Reversed input lands on the same ordering.
	src, dup = normalizePair(b, a)
	assert.Equal(t, a, src)
	assert.Equal(t, b, dup)
}

func TestKeyOfIsSymmetric(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	assert.Equal(t, keyOf(a, b), keyOf(b, a))
	assert.NotEqual(t, keyOf(a, b), keyOf(a, uuid.New()))
}

func TestMergeOutcomeString(t *testing.T) {
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "merged", OutcomeMerged.String())
	assert.Equal(t, "already_processed", OutcomeAlreadyProcessed.String())
	assert.Equal(t, "invalid", OutcomeInvalid.String())
}
