package draft

import "errors"

var (
	ErrTooFewParticipants = errors.New("draft requires at least 2 participants")
	ErrNoRounds           = errors.New("draft requires at least 1 round")
)

// TurnState tells the caller whose turn it is. Picker is nil once the
// draft is complete; that state is terminal.
type TurnState struct {
	Picker     *int `json:"picker"`
	Round      int  `json:"round"`
	PickNumber int  `json:"pick_number"`
	Complete   bool `json:"complete"`
}

// ComputeTurnState maps the number of picks made so far onto the snake
// order: odd rounds run forward through participants, even rounds run
// backward. Once totalPicksMade reaches the draft cap the result pins to
// the final round and pick number no matter how large totalPicksMade gets.
func ComputeTurnState(totalPicksMade int, participants []int, numRounds int) (TurnState, error) {
	if len(participants) < 2 {
		return TurnState{}, ErrTooFewParticipants
	}
	if numRounds < 1 {
		return TurnState{}, ErrNoRounds
	}
	if totalPicksMade < 0 {
		totalPicksMade = 0
	}

	n := len(participants)
	draftCap := n * numRounds

	if totalPicksMade >= draftCap {
		return TurnState{
			Picker:     nil,
			Round:      numRounds,
			PickNumber: draftCap,
			Complete:   true,
		}, nil
	}

	round := totalPicksMade/n + 1
	positionInRound := totalPicksMade % n

	pickerIndex := positionInRound
	if round%2 == 0 {
		pickerIndex = n - 1 - positionInRound
	}

	picker := participants[pickerIndex]
	return TurnState{
		Picker:     &picker,
		Round:      round,
		PickNumber: totalPicksMade + 1,
	}, nil
}

// PicksUntilTurn reports how many picks away userID's next turn is, with 0
// meaning it is their turn right now. The scan is bounded by one full snake
// reversal cycle; beyond that the user has no remaining turn (draft over,
// or they are not in the order) and ok is false.
func PicksUntilTurn(totalPicksMade int, participants []int, numRounds int, userID int) (int, bool) {
	bound := 2 * len(participants)
	for k := 0; k <= bound; k++ {
		state, err := ComputeTurnState(totalPicksMade+k, participants, numRounds)
		if err != nil {
			return 0, false
		}
		if state.Complete {
			return 0, false
		}
		if *state.Picker == userID {
			return k, true
		}
	}
	return 0, false
}
