package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(rows int) Dataset {
	data := Dataset{Headers: []string{"Name", "Dept", "Login Time"}}
	for i := 0; i < rows; i++ {
		data.Rows = append(data.Rows, map[string]string{
			"Name":       fmt.Sprintf("Student %d", i),
			"Dept":       "CSE",
			"Login Time": "2024-01-01T10:00:00.000Z",
		})
	}
	return data
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset(2), "ignored")
	require.NoError(t, err)
	assert.Equal(t, "Name,Dept,Login Time\nStudent 0,CSE,2024-01-01T10:00:00.000Z\nStudent 1,CSE,2024-01-01T10:00:00.000Z\n", string(out))
}

func TestCSVExporterNeutralizesFormulas(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name", "Dept"},
		Rows: []map[string]string{
			{"Name": "=HYPERLINK(\"http://x\")", "Dept": "@CSE"},
			{"Name": "Asha-Rao", "Dept": "-"},
		},
	}
	out, err := NewCSVExporter().Render(data, "")
	require.NoError(t, err)
	assert.Equal(t, "Name,Dept\n\"'=HYPERLINK(\"\"http://x\"\")\",'@CSE\nAsha-Rao,'-\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{}, "")
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestPDFExporterPaginates(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(120), "Student logins")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", NewPDFExporter().ContentType())
}
