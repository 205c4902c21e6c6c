package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/model"
)

func TestDocument_PageCount(t *testing.T) {
	p1 := &model.Page{Number: 1, Width: 595, Height: 842}
	p2 := &model.Page{Number: 2, Width: 595, Height: 842}
	doc := model.NewDocument("inv.pdf", []*model.Page{p1, p2})

	assert.Equal(t, 2, doc.PageCount())
	assert.Equal(t, doc, p1.Document())
	require.NotNil(t, doc.Page(2))
	assert.Equal(t, 2, doc.Page(2).Number)
	assert.Nil(t, doc.Page(3))
}

func TestRow_TextAndBounds(t *testing.T) {
	tokens := []model.Token{
		{Text: "Faktura", X: 10, Y: 100, W: 40, H: 10},
		{Text: "12345", X: 60, Y: 102, W: 30, H: 10},
	}
	row := model.NewRow(tokens)

	assert.Equal(t, "Faktura 12345", row.Text())
	assert.Equal(t, 10.0, row.XMin)
	assert.Equal(t, 90.0, row.XMax)
	assert.Equal(t, 101.0, row.Y)
}

func TestTraceability_EnclosesTokens(t *testing.T) {
	tokens := []model.Token{
		{Text: "167", X: 100, Y: 200, W: 20, H: 10},
		{Text: "715,20", X: 125, Y: 202, W: 40, H: 12},
	}
	tr := model.NewTraceability(3, tokens, "167 715,20")

	assert.Equal(t, 3, tr.Page)
	assert.Equal(t, 100.0, tr.X)
	assert.Equal(t, 200.0, tr.Y)
	assert.Equal(t, 65.0, tr.W)  // 165 - 100
	assert.Equal(t, 14.0, tr.H)  // 214 - 200
	assert.Equal(t, "167 715,20", tr.TextExcerpt)
}

func TestInvoiceHeader_HardGatePass(t *testing.T) {
	h := &model.InvoiceHeader{InvoiceNumberConf: 0.98, TotalConf: 0.97}
	assert.True(t, h.HardGatePass())

	h.TotalConf = 0.5
	assert.False(t, h.HardGatePass())

	var nilHeader *model.InvoiceHeader
	assert.False(t, nilHeader.HardGatePass())
}

func TestNewVirtualInvoiceID(t *testing.T) {
	assert.Equal(t, "invoice__1", model.NewVirtualInvoiceID("invoice", 1))
	assert.Equal(t, "batch__14", model.NewVirtualInvoiceID("batch", 14))
}

func TestRunSummary_InitialCounts(t *testing.T) {
	rs := model.NewRunSummary()
	assert.Equal(t, 0, rs.Counts[model.StatusOK])
	assert.Equal(t, 0, rs.Counts[model.StatusPartial])
	assert.Equal(t, 0, rs.Counts[model.StatusReview])
}
