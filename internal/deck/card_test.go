package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardJSON(t *testing.T) {
	data, err := json.Marshal(NewCard(Hearts, Ten))
	require.NoError(t, err)
	assert.JSONEq(t, `{"suit":"hearts","rank":"10"}`, string(data))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"suit":"spades","rank":"A"}`), &c))
	assert.Equal(t, NewCard(Spades, Ace), c)

	assert.Error(t, json.Unmarshal([]byte(`{"suit":"stars","rank":"A"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"suit":"clubs","rank":"1"}`), &c))
}

func TestParseRank(t *testing.T) {
	tests := map[string]Rank{"A": Ace, "k": King, "10": Ten, "T": Ten, "2": Two, "9": Nine}
	for in, want := range tests {
		got, err := ParseRank(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "1", "11", "Z", "22"} {
		_, err := ParseRank(bad)
		assert.Error(t, err, bad)
	}
}

func TestRankPoints(t *testing.T) {
	assert.Equal(t, 1, Ace.Points())
	assert.Equal(t, 10, King.Points())
	assert.Equal(t, 10, Ten.Points())
	assert.Equal(t, 7, Seven.Points())
}
