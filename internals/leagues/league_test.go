package leagues

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParticipants(t *testing.T) {
	assert.Nil(t, ParseParticipants(""))
	assert.Equal(t, []int{7}, ParseParticipants("7"))
	assert.Equal(t, []int{3, 1, 12}, ParseParticipants("3,1,12"))
	// Junk segments are skipped rather than failing the whole list.
	assert.Equal(t, []int{3, 12}, ParseParticipants("3,oops,12"))
	assert.Equal(t, []int{5, 6}, ParseParticipants(" 5 , 6 "))
}

func TestCreateLeague_Validation(t *testing.T) {
	svc := New(nil, nil, 100000)

	cases := []struct {
		name string
		body CreateLeagueRequestBody
	}{
		{"missing name", CreateLeagueRequestBody{NumParticipants: 4, NumRounds: 2}},
		{"one participant", CreateLeagueRequestBody{LeagueName: "x", NumParticipants: 1, NumRounds: 2}},
		{"zero rounds", CreateLeagueRequestBody{LeagueName: "x", NumParticipants: 4, NumRounds: 0}},
		{"budget mode without amount", CreateLeagueRequestBody{LeagueName: "x", NumParticipants: 4, NumRounds: 2, BudgetMode: BudgetModeBudget}},
		{"unknown budget mode", CreateLeagueRequestBody{LeagueName: "x", NumParticipants: 4, NumRounds: 2, BudgetMode: "loans"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateLeague(1, tc.body)
			assert.Error(t, err)
		})
	}
}
