package deck

// BlackjackScore is the best possible hand total
const BlackjackScore = 21

// Score returns the blackjack total of a hand. Non-ace cards are summed
// first; each ace then counts 11 when that keeps the total at or below 21,
// otherwise 1. The result does not depend on card order.
func Score(cards []Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
			continue
		}
		total += c.Rank.Points()
	}
	for ; aces > 0; aces-- {
		if total+11 <= BlackjackScore {
			total += 11
		} else {
			total++
		}
	}
	return total
}

// IsBust reports whether the hand is over 21
func IsBust(cards []Card) bool {
	return Score(cards) > BlackjackScore
}

// IsBlackjack reports a natural: exactly two cards totalling 21
func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && Score(cards) == BlackjackScore
}
