package lineitems_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/lineitems"
	"github.com/ramirent/faktura-extract/internal/model"
)

func tok(text string, x, y float64) model.Token {
	return model.Token{Text: text, X: x, Y: y, W: float64(len(text)) * 5, H: 10}
}

func TestDelimitBlock_FindsHeaderAndEnd(t *testing.T) {
	rows := []model.Row{
		model.NewRow([]model.Token{tok("Artikelnr", 0, 0), tok("Benämning", 80, 0), tok("Nettobelopp", 300, 0)}),
		model.NewRow([]model.Token{tok("12345", 0, 20), tok("Maskinhyra", 80, 20), tok("25,00", 250, 20), tok("500,00", 300, 20)}),
		model.NewRow([]model.Token{tok("Nettobelopp", 0, 40), tok("exkl.", 120, 40), tok("moms", 160, 40), tok("500,00", 300, 40)}),
	}
	start, end, ok := lineitems.DelimitBlock(rows)
	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)
}

func TestParseModeA_ExtractsNetAmountAfterVATAnchor(t *testing.T) {
	rows := []model.Row{
		model.NewRow([]model.Token{
			tok("Maskinhyra", 20, 20),
			tok("2", 200, 20),
			tok("st", 220, 20),
			tok("250,00", 250, 20),
			tok("25,00", 310, 20),
			tok("500,00", 360, 20),
		}),
	}
	result := lineitems.Parse(rows, lineitems.ModeText, 595)
	require.Len(t, result.Lines, 1)
	assert.True(t, result.NoTableBoundary)
	f, _ := result.Lines[0].TotalAmount.Float64()
	assert.InDelta(t, 500.00, f, 0.001)
}

func TestParseModeA_SkipsFooterAndHeaderRows(t *testing.T) {
	rows := []model.Row{
		model.NewRow([]model.Token{tok("Summa", 0, 0), tok("att", 60, 0), tok("betala", 100, 0), tok("1", 200, 0), tok("072,60", 220, 0)}),
		model.NewRow([]model.Token{
			tok("Maskinhyra", 20, 30), tok("2", 200, 30), tok("st", 220, 30),
			tok("250,00", 250, 30), tok("25,00", 310, 30), tok("500,00", 360, 30),
		}),
	}
	result := lineitems.Parse(rows, lineitems.ModeText, 595)
	require.Len(t, result.Lines, 1)
}

func TestParseModeB_ColumnClustering(t *testing.T) {
	rows := []model.Row{
		model.NewRow([]model.Token{tok("Benämning", 0, 0), tok("Nettobelopp", 400, 0)}),
		model.NewRow([]model.Token{tok("Maskinhyra", 0, 30), tok("500,00", 400, 30)}),
		model.NewRow([]model.Token{tok("Kranbil", 0, 60), tok("900,00", 400, 60)}),
	}
	result := lineitems.RunModeB(rows, 595)
	require.NotEmpty(t, result.Lines)
}
