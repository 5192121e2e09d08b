package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("leave-summary")
	assert.NoError(t, err)
	assert.Equal(t, KindLeaveSummary, k)

	_, err = ParseKind("payroll")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	assert.NoError(t, err)
	assert.Equal(t, FormatExcel, f)

	f, err = ParseFormat("pdf")
	assert.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
