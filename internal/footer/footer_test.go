package footer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/footer"
	"github.com/ramirent/faktura-extract/internal/model"
)

func row(page int, texts ...string) model.Row {
	toks := make([]model.Token, len(texts))
	for i, s := range texts {
		toks[i] = model.Token{Text: s, X: float64(i) * 20, Y: 800, W: 15, H: 10, Page: page}
	}
	return model.NewRow(toks)
}

func TestExtract_NetAndToPay(t *testing.T) {
	rows := []model.Row{
		row(2, "Nettobelopp", "exkl.", "moms", "857,92"),
		row(2, "Summa", "att", "betala", "1 072,60"),
	}
	totals := footer.Extract(rows)
	require.NotNil(t, totals.NetTotal)
	require.NotNil(t, totals.ToPayTotal)
	f, _ := totals.NetTotal.Float64()
	assert.InDelta(t, 857.92, f, 0.001)
	f2, _ := totals.ToPayTotal.Float64()
	assert.InDelta(t, 1072.60, f2, 0.001)
	assert.NotNil(t, totals.NetTrace)
	assert.NotNil(t, totals.ToPayTrace)
}

func TestExtract_NoMatches(t *testing.T) {
	rows := []model.Row{row(2, "nothing", "relevant", "here")}
	totals := footer.Extract(rows)
	assert.Nil(t, totals.NetTotal)
	assert.Nil(t, totals.ToPayTotal)
}
