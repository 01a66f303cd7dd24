package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bidboard/internal/domain"
)

func TestWriteBidLinksXLSX(t *testing.T) {
	conf := 0.75
	links := []domain.BidLink{
		{Title: "Go dev", URL: "https://a", Company: "Acme", Confidence: &conf,
			CreatedAt:    time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC),
			Query:        &domain.QueryRef{Category: "backend"},
			FinalDetails: &domain.FinalDetails{Tag: "Remote Job"}},
		{Title: "No company", URL: "https://b"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteBidLinksXLSX(&buf, links, map[string]struct{}{"https://b": {}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, headers, rows[0])
	require.Equal(t, []string{"Go dev", "Acme", "backend", "0.75", "Remote Job", "2026-10-16 08:30", "https://a", "FALSE"}, rows[1])
	require.Equal(t, "N/A", rows[2][1])
	require.Equal(t, domain.UncategorizedCategory, rows[2][2])
	require.Equal(t, "TRUE", rows[2][7])
}
