package draft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTurnState_SnakeOrder(t *testing.T) {
	participants := []int{1, 2, 3, 4}
	wantPickers := []int{1, 2, 3, 4, 4, 3, 2, 1}

	for picksMade, want := range wantPickers {
		state, err := ComputeTurnState(picksMade, participants, 2)
		require.NoError(t, err)
		require.False(t, state.Complete)
		require.NotNil(t, state.Picker)
		assert.Equal(t, want, *state.Picker, "picker after %d picks", picksMade)
		assert.Equal(t, picksMade+1, state.PickNumber)
	}
}

func TestComputeTurnState_MidDraft(t *testing.T) {
	state, err := ComputeTurnState(4, []int{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	require.NotNil(t, state.Picker)
	assert.Equal(t, 4, *state.Picker)
	assert.Equal(t, 2, state.Round)
	assert.Equal(t, 5, state.PickNumber)
}

func TestComputeTurnState_CompleteIsTerminal(t *testing.T) {
	participants := []int{10, 20, 30}
	draftCap := 3 * 4

	atCap, err := ComputeTurnState(draftCap, participants, 4)
	require.NoError(t, err)
	assert.True(t, atCap.Complete)
	assert.Nil(t, atCap.Picker)
	assert.Equal(t, 4, atCap.Round)
	assert.Equal(t, draftCap, atCap.PickNumber)

	// Picks beyond the cap report the same terminal state.
	past, err := ComputeTurnState(draftCap+5, participants, 4)
	require.NoError(t, err)
	assert.Equal(t, atCap, past)
}

func TestComputeTurnState_VisitsEveryPickOnce(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5} {
		for _, rounds := range []int{1, 2, 3} {
			participants := make([]int, n)
			for i := range participants {
				participants[i] = i + 100
			}

			seen := make(map[string]bool)
			perRound := make(map[int][]int)
			for picksMade := 0; picksMade < n*rounds; picksMade++ {
				state, err := ComputeTurnState(picksMade, participants, rounds)
				require.NoError(t, err)
				require.False(t, state.Complete)

				key := fmt.Sprintf("%d/%d", state.Round, state.PickNumber)
				require.False(t, seen[key], "n=%d rounds=%d revisited %s", n, rounds, key)
				seen[key] = true
				perRound[state.Round] = append(perRound[state.Round], *state.Picker)
			}
			require.Len(t, seen, n*rounds)

			// Odd rounds run forward, even rounds reversed.
			for round := 1; round <= rounds; round++ {
				got := perRound[round]
				require.Len(t, got, n)
				for i, picker := range got {
					want := participants[i]
					if round%2 == 0 {
						want = participants[n-1-i]
					}
					assert.Equal(t, want, picker, "round %d position %d", round, i)
				}
			}
		}
	}
}

func TestComputeTurnState_ConfigErrors(t *testing.T) {
	_, err := ComputeTurnState(0, []int{1}, 3)
	assert.ErrorIs(t, err, ErrTooFewParticipants)

	_, err = ComputeTurnState(0, nil, 3)
	assert.ErrorIs(t, err, ErrTooFewParticipants)

	_, err = ComputeTurnState(0, []int{1, 2}, 0)
	assert.ErrorIs(t, err, ErrNoRounds)
}

func TestPicksUntilTurn(t *testing.T) {
	participants := []int{1, 2, 3, 4}

	k, ok := PicksUntilTurn(0, participants, 2, 1)
	require.True(t, ok)
	assert.Equal(t, 0, k)

	k, ok = PicksUntilTurn(0, participants, 2, 4)
	require.True(t, ok)
	assert.Equal(t, 3, k)

	// After round one the last picker goes again immediately.
	k, ok = PicksUntilTurn(4, participants, 2, 4)
	require.True(t, ok)
	assert.Equal(t, 0, k)

	// Not in the draft order.
	_, ok = PicksUntilTurn(0, participants, 2, 99)
	assert.False(t, ok)

	// Draft already complete.
	_, ok = PicksUntilTurn(8, participants, 2, 1)
	assert.False(t, ok)

	// User 2's last turn already passed; only pick 8 remains.
	_, ok = PicksUntilTurn(7, participants, 2, 2)
	assert.False(t, ok)
}
