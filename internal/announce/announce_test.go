package announce

import (
	"bytes"
	"strings"
	"testing"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *core.Store {
	t.Helper()
	s, err := core.NewStore(dataset.Screening())
	require.NoError(t, err)
	return s
}

func TestDescribeSummary(t *testing.T) {
	s := newStore(t)
	v, err := s.SetDateRange(0, 1)
	require.NoError(t, err)
	got := DescribeSummary(v)
	assert.Equal(t, "Summary for Jul 21 to Aug 21. Total: 2,823. "+
		"Screen In: 1,910, 67.7%. Evaluate Out: 770, 27.3%. "+
		"Override to In Person: 85, 3.0%. Override to Eval Out: 58, 2.1%.", got)
}

func TestDescribeSummaryRespectsHints(t *testing.T) {
	s := newStore(t)
	_, err := s.SetDateRange(0, 1)
	require.NoError(t, err)
	_, err = s.SetCategoryVisibility(dataset.EvaluateOut, false)
	require.NoError(t, err)
	v, err := s.SetDisplayMode(schema.PercentagesMode)
	require.NoError(t, err)

	got := DescribeSummary(v)
	assert.NotContains(t, got, "Evaluate Out")
	assert.Contains(t, got, "Screen In: 67.7%")
	assert.Contains(t, got, "Total: 2,053.")
}

func TestDescribeTrend(t *testing.T) {
	s := newStore(t)
	v := s.View()
	got := DescribeTrend(v)
	assert.True(t, strings.HasPrefix(got, "SDM Hotline Screening Decision. Line chart showing 18 periods from Jul 21 to Dec 22."))
	assert.Contains(t, got, "Screen In peaks at 1,765 in Dec 22, lowest 950 in Jul 21.")
	assert.Contains(t, got, "Total: 31,150.")

	for _, id := range dataset.Screening().CategoryIDs() {
		v, _ = s.SetCategoryVisibility(id, false)
	}
	assert.Contains(t, DescribeTrend(v), "No categories are visible.")
	assert.Contains(t, DescribeSummary(v), "No categories are visible.")
}

func TestDescribeTrendPercentages(t *testing.T) {
	s := newStore(t)
	v, err := s.SetDisplayMode(schema.PercentagesMode)
	require.NoError(t, err)
	assert.Contains(t, DescribeTrend(v), "of its period in")
}

func TestAnnouncerReportsChanges(t *testing.T) {
	s := newStore(t)
	var buf bytes.Buffer
	a := Attach(s, &buf)

	_, err := s.SetDateRange(0, 0)
	require.NoError(t, err)
	_, err = s.SetCategoryVisibility(dataset.ScreenIn, false)
	require.NoError(t, err)
	_, err = s.SetDisplayMode(schema.CountsMode)
	require.NoError(t, err)

	a.Detach()
	_, err = s.SetDisplayMode(schema.PercentagesMode)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Filter updated. Date range changed to Jul 21 - Jul 21. Now showing 1 period with 1,400 total.", lines[0])
	assert.Equal(t, "Filter updated. Screen In hidden. Now showing 1 period with 450 total.", lines[1])
	assert.Equal(t, "Filter updated. Filters reapplied. Now showing 1 period with 450 total.", lines[2])
}

func TestDescribeInsights(t *testing.T) {
	assert.Equal(t, "No insights available.", DescribeInsights(nil))
	got := DescribeInsights([]schema.Insight{{Text: "A."}, {Text: "B."}})
	assert.Equal(t, "2 insights available. Insight 1: A. Insight 2: B.", got)
}
