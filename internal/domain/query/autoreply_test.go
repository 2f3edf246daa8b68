// internal/domain/query/autoreply_test.go
package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCannedReply(t *testing.T) {
	reply, ok := MatchCannedReply("What are your opening hours?")
	require.True(t, ok)
	assert.Contains(t, reply, "Monday to Saturday")

	reply, ok = MatchCannedReply("How long does DELIVERY take?")
	require.True(t, ok)
	assert.Contains(t, reply, "3 to 5 business days")
}

func TestMatchCannedReplyFirstTopicWins(t *testing.T) {
	// Both "hours" and "delivery" appear; hours is declared first so its
	// reply is chosen every time
	for i := 0; i < 10; i++ {
		reply, ok := MatchCannedReply("What are the delivery hours?")
		require.True(t, ok)
		assert.Contains(t, reply, "Monday to Saturday")
	}
}

func TestMatchCannedReplyNoMatch(t *testing.T) {
	_, ok := MatchCannedReply("Do you sell standing desks in walnut?")
	assert.False(t, ok)
}

func TestSimilarity(t *testing.T) {
	// Identical messages overlap completely
	assert.Equal(t, 1.0, Similarity("do you ship abroad", "do you ship abroad"))

	// No shared words
	assert.Equal(t, 0.0, Similarity("warranty terms", "gift wrapping options"))

	// Empty input never matches
	assert.Equal(t, 0.0, Similarity("", "anything at all"))
}

func TestSimilarityIgnoresShortWordsAndPunctuation(t *testing.T) {
	// The trailing punctuation is stripped before comparing
	score := Similarity("Can you ship, please?", "ship please")
	assert.Equal(t, 1.0, score)
}

func TestMatchPastReplyPicksBestAboveThreshold(t *testing.T) {
	answered := []CustomerQuery{
		{Message: "Do you offer bulk discounts for offices?", Reply: "Yes, bulk orders over 10 units get a discount."},
		{Message: "Is the warranty transferable?", Reply: "The warranty stays with the item."},
	}

	reply, ok := MatchPastReply("Can I get bulk discounts for my office order?", answered)
	require.True(t, ok)
	assert.Equal(t, "Yes, bulk orders over 10 units get a discount.", reply)
}

func TestMatchPastReplyBelowThreshold(t *testing.T) {
	answered := []CustomerQuery{
		{Message: "Is the warranty transferable?", Reply: "The warranty stays with the item."},
	}

	_, ok := MatchPastReply("Do you have chairs in stock?", answered)
	assert.False(t, ok)
}

func TestMatchPastReplySkipsEmptyReplies(t *testing.T) {
	answered := []CustomerQuery{
		{Message: "Do you have chairs in stock?", Reply: ""},
	}

	_, ok := MatchPastReply("Do you have chairs in stock?", answered)
	assert.False(t, ok)
}
