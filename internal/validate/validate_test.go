package validate_test

import (
	"testing"

	sdecimal "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/validate"
)

func header(invoiceConf, totalConf float64, total float64) *model.InvoiceHeader {
	return &model.InvoiceHeader{
		InvoiceNumber: "1234567", InvoiceNumberConf: invoiceConf,
		TotalAmount: &total, TotalConf: totalConf,
	}
}

func line(total float64) model.InvoiceLine {
	return model.InvoiceLine{TotalAmount: sdecimal.NewFromFloat(total)}
}

func TestValidate_OKWhenDiffWithinTolerance(t *testing.T) {
	h := header(0.99, 0.99, 1000.00)
	lines := []model.InvoiceLine{line(999.50)}
	result := validate.Validate(h, lines, nil, nil, validate.DefaultConfig())
	assert.Equal(t, model.StatusOK, result.Status)
	assert.Empty(t, result.Errors)
}

func TestValidate_PartialWhenDiffExceedsTolerance(t *testing.T) {
	h := header(0.99, 0.99, 1000.00)
	lines := []model.InvoiceLine{line(900.00)}
	result := validate.Validate(h, lines, nil, nil, validate.DefaultConfig())
	assert.Equal(t, model.StatusPartial, result.Status)
	require.NotEmpty(t, result.Warnings)
}

func TestValidate_ReviewWhenHardGateFails(t *testing.T) {
	h := header(0.60, 0.99, 1000.00)
	lines := []model.InvoiceLine{line(1000.00)}
	result := validate.Validate(h, lines, nil, nil, validate.DefaultConfig())
	assert.Equal(t, model.StatusReview, result.Status)
	require.NotEmpty(t, result.Errors)
}

func TestValidate_ReviewWhenNoLines(t *testing.T) {
	h := header(0.99, 0.99, 1000.00)
	result := validate.Validate(h, nil, nil, nil, validate.DefaultConfig())
	assert.Equal(t, model.StatusReview, result.Status)
	assert.Contains(t, result.Errors, "No invoice lines extracted")
}

func TestPassesVAL01(t *testing.T) {
	net := sdecimal.NewFromFloat(500.00)
	assert.True(t, validate.PassesVAL01(sdecimal.NewFromFloat(500.30), &net, validate.DefaultConfig()))
	assert.False(t, validate.PassesVAL01(sdecimal.NewFromFloat(510.00), &net, validate.DefaultConfig()))
}
