package tabledebug_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/tabledebug"
)

func TestWrite_CreatesAllFourFiles(t *testing.T) {
	dir := t.TempDir()
	dump := &model.TableDebugDump{
		RawText:    "Artikel 1  100,00",
		Tokens:     []model.Token{{Text: "Artikel", Page: 1}},
		Lines:      []model.InvoiceLine{{LineNumber: 1}},
		Validation: model.ValidationResult{Status: model.StatusReview},
	}

	folder, err := tabledebug.Write(dir, "bill.pdf__0", dump)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoices", "bill.pdf__0", "table_debug"), folder)

	for _, name := range []string{
		"table_block_raw_text.txt",
		"parsed_lines.json",
		"validation_result.json",
		"table_block_tokens.json",
	} {
		_, err := os.Stat(filepath.Join(folder, name))
		assert.NoError(t, err, name)
	}
}

func TestWrite_RawTextContentMatches(t *testing.T) {
	dir := t.TempDir()
	dump := &model.TableDebugDump{RawText: "hello world"}

	folder, err := tabledebug.Write(dir, "x__0", dump)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(folder, "table_block_raw_text.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}
