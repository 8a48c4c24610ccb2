package engine

// Scorer computes the efficiency score of a finished game.
type Scorer struct {
	PenaltyPerExtraMove int
}

// Score returns the score with the default penalty of 5 per extra move.
func Score(moveCount, deckLength, groupSize int) int {
	return Scorer{PenaltyPerExtraMove: DefaultPenaltyPerExtraMove}.Score(moveCount, deckLength, groupSize)
}

// IdealMoves is the theoretical minimum number of moves: one per group.
func IdealMoves(deckLength, groupSize int) int {
	if groupSize <= 0 || deckLength <= 0 {
		return 0
	}
	return deckLength / groupSize
}

// Score is 100 minus the penalty for each move above IdealMoves, clamped to
// [0, 100]. It is pure and total.
func (s Scorer) Score(moveCount, deckLength, groupSize int) int {
	extra := moveCount - IdealMoves(deckLength, groupSize)
	raw := MaxScore - extra*s.PenaltyPerExtraMove
	switch {
	case raw > MaxScore:
		return MaxScore
	case raw < 0:
		return 0
	}
	return raw
}
