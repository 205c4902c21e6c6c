package assemble_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/assemble"
	"github.com/ramirent/faktura-extract/internal/model"
)

func TestAssemble_AttachesFieldsWithoutMutatingOthers(t *testing.T) {
	inv := model.VirtualInvoice{ID: "bill.pdf__0", Index: 0}
	lines := []model.InvoiceLine{{LineNumber: 1}}
	validation := model.ValidationResult{Status: model.StatusOK}
	extraction := model.ExtractionDetail{MethodUsed: model.MethodPDFPlumber}

	out := assemble.Assemble(inv, lines, validation, extraction)
	assert.Equal(t, "bill.pdf__0", out.ID)
	require.Len(t, out.Lines, 1)
	require.NotNil(t, out.Validation)
	assert.Equal(t, model.StatusOK, out.Validation.Status)
	require.NotNil(t, out.Extraction)
	assert.Equal(t, model.MethodPDFPlumber, out.Extraction.MethodUsed)
}

func TestAssembleBatch_PreservesOrderAndCounts(t *testing.T) {
	invoices := []model.VirtualInvoice{
		{ID: "a__0", Validation: &model.ValidationResult{Status: model.StatusOK}},
		{ID: "b__0", Validation: &model.ValidationResult{Status: model.StatusReview}},
	}
	summary := assemble.AssembleBatch(invoices, 1)
	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Counts[model.StatusOK])
	assert.Equal(t, 1, summary.Counts[model.StatusReview])
	require.Len(t, summary.Invoices, 2)
	assert.Equal(t, "a__0", summary.Invoices[0].ID)
	assert.Equal(t, "b__0", summary.Invoices[1].ID)
}
