package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/tokenize/text"
)

func TestClusterIntoLines_GroupsByYAndSortsByX(t *testing.T) {
	tokens := []model.Token{
		{Text: "12345", X: 100, Y: 50.5, H: 10},
		{Text: "Fakturanummer", X: 10, Y: 50, H: 10},
		{Text: "Sida", X: 10, Y: 120, H: 10},
		{Text: "1/2", X: 40, Y: 121, H: 10},
	}

	lines := text.ClusterIntoLines(tokens)
	require.Len(t, lines, 4)

	assert.Equal(t, "Fakturanummer", lines[0].Text)
	assert.Equal(t, "12345", lines[1].Text)
	assert.Equal(t, "Sida", lines[2].Text)
	assert.Equal(t, "1/2", lines[3].Text)
}

func TestClusterIntoLines_ThresholdClampedToBounds(t *testing.T) {
	// Two rows whose tokens have no height info (threshold clamps to 2),
	// separated by exactly 2.5pt — must land in different lines.
	tokens := []model.Token{
		{Text: "A", X: 0, Y: 0},
		{Text: "B", X: 0, Y: 2.5},
	}
	lines := text.ClusterIntoLines(tokens)
	assert.Equal(t, "A", lines[0].Text)
	assert.Equal(t, "B", lines[1].Text)
}

func TestClusterIntoLines_Empty(t *testing.T) {
	assert.Empty(t, text.ClusterIntoLines(nil))
}
