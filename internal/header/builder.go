package header

import "github.com/ramirent/faktura-extract/internal/model"

// Builder accumulates header fields as each extraction strategy runs,
// then seals them into an immutable model.InvoiceHeader. Per spec §9,
// InvoiceHeader is never mutated after construction; Builder is the only
// path to building one.
type Builder struct {
	header model.InvoiceHeader
	sealed bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithInvoiceNumber(number string, confidence float64, trace *model.Traceability) *Builder {
	b.header.InvoiceNumber = number
	b.header.InvoiceNumberConf = confidence
	b.header.InvoiceNumberTrace = trace
	return b
}

func (b *Builder) WithTotal(amount *float64, confidence float64, trace *model.Traceability) *Builder {
	b.header.TotalAmount = amount
	b.header.TotalConf = confidence
	b.header.TotalTrace = trace
	return b
}

func (b *Builder) WithSupplier(supplier string) *Builder {
	b.header.Supplier = supplier
	return b
}

func (b *Builder) WithDate(date *string) *Builder {
	b.header.Date = date
	return b
}

func (b *Builder) WithExtractionSource(source model.ExtractionSource) *Builder {
	b.header.ExtractionSource = source
	return b
}

// Seal returns a copy of the fields accumulated so far as an
// InvoiceHeader. Each call returns a new copy: With calls made after Seal
// change later Seal results, not a header already returned.
func (b *Builder) Seal() *model.InvoiceHeader {
	b.sealed = true
	h := b.header
	return &h
}

// Sealed reports whether Seal has been called.
func (b *Builder) Sealed() bool {
	return b.sealed
}
