package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Dan9191/loan-registry/internal/models"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testRecords() []models.LoanRecord {
	return []models.LoanRecord{
		{Name: "Jane Doe", Email: "jane@example.com", DateOfBirth: "1990-05-17",
			LoanAmount: 1000, InterestRate: 5, InterestAmount: 50, TermMonths: 12, TotalInterest: 600},
		{Name: "John Roe", Email: "john@example.com", DateOfBirth: "1985-01-02",
			LoanAmount: 5000, InterestRate: 10, InterestAmount: 500, TermMonths: 6, TotalInterest: 3000},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XML")
	require.NoError(t, err)
	assert.Equal(t, FormatXML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, testRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(models.Columns, ","), lines[0])
	assert.Equal(t, "Jane Doe,jane@example.com,1990-05-17,1000 $,5 %,50 $,12 months,600 $", lines[1])
}

func TestWrite_XML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXML, testRecords()))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	root := doc.SelectElement("LoanRecords")
	require.NotNil(t, root)
	assert.Equal(t, "2", root.SelectAttrValue("count", ""))

	items := root.SelectElements("LoanRecord")
	require.Len(t, items, 2)
	assert.Equal(t, "john@example.com", items[1].SelectAttrValue("email", ""))
	assert.Equal(t, "3000", items[1].SelectElement("TotalInterest").Text())
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, testRecords()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.Columns, rows[0])
	assert.Equal(t, []string{"Jane Doe", "jane@example.com", "1990-05-17", "1000", "5", "50", "12", "600"}, rows[1])
}

func TestWrite_XLSXHeaderStyle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle(sheetName, "H1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWrite_WriterFailure(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatXML, FormatXLSX} {
		err := Write(failingWriter{}, format, testRecords())
		require.Error(t, err, format)
		assert.Contains(t, err.Error(), "disk full", format)
	}
}

func TestWrite_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, Format("pdf"), nil))
}
