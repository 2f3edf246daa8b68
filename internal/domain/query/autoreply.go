// internal/domain/query/autoreply.go
package query

import "strings"

// similarityThreshold is the minimum word overlap before a past manual
// answer is reused
const similarityThreshold = 0.3

// cannedReplies answers the questions customers ask most. The slice keeps
// topic precedence stable when a message mentions more than one keyword.
var cannedReplies = []struct {
	keyword string
	reply   string
}{
	{"hours", "We are open Monday to Saturday, 9 AM to 6 PM. We are closed on Sundays."},
	{"delivery", "Standard delivery takes 3 to 5 business days. You will receive a confirmation once your order ships."},
	{"return", "Items can be returned within 14 days of purchase in their original condition. Please contact us with your order details."},
	{"contact", "You can reach us by replying to this message or calling our front desk during business hours."},
	{"price", "Our current prices are listed in the product catalog. Prices include all applicable charges."},
}

// MatchCannedReply checks the message against the canned reply topics in
// declaration order. The first topic word found in the message wins.
func MatchCannedReply(message string) (string, bool) {
	lowered := strings.ToLower(message)
	for _, canned := range cannedReplies {
		if strings.Contains(lowered, canned.keyword) {
			return canned.reply, true
		}
	}
	return "", false
}

// tokenize splits a message into a set of lowercased words
func tokenize(message string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(message)) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) > 2 {
			words[w] = struct{}{}
		}
	}
	return words
}

// Similarity measures word overlap between two messages as the share of
// the smaller word set that also appears in the larger one
func Similarity(a, b string) float64 {
	wordsA := tokenize(a)
	wordsB := tokenize(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	smaller, larger := wordsA, wordsB
	if len(wordsB) < len(wordsA) {
		smaller, larger = wordsB, wordsA
	}

	common := 0
	for w := range smaller {
		if _, ok := larger[w]; ok {
			common++
		}
	}

	return float64(common) / float64(len(smaller))
}

// MatchPastReply looks for a previously answered query similar enough to
// the new message and reuses its reply
func MatchPastReply(message string, answered []CustomerQuery) (string, bool) {
	bestScore := 0.0
	bestReply := ""

	for _, past := range answered {
		if past.Reply == "" {
			continue
		}
		score := Similarity(message, past.Message)
		if score > bestScore {
			bestScore = score
			bestReply = past.Reply
		}
	}

	if bestScore > similarityThreshold {
		return bestReply, true
	}
	return "", false
}
