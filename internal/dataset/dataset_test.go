package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDatasetsAreValid(t *testing.T) {
	inv := Investigation()
	require.NoError(t, core.ValidateDataset(inv))
	assert.Equal(t, 24, inv.Len())
	assert.Equal(t, "Jan 21", inv.Periods[0])
	assert.Equal(t, "Dec 22", inv.Periods[23])
	assert.Len(t, inv.Categories, 3)

	scr := Screening()
	require.NoError(t, core.ValidateDataset(scr))
	assert.Equal(t, 18, scr.Len())
	assert.Equal(t, "Jul 21", scr.Periods[0])
	assert.Equal(t, "Dec 21", scr.Periods[5])
	assert.Equal(t, "Jan 22", scr.Periods[6])
	assert.Equal(t, "Dec 22", scr.Periods[17])
	assert.Equal(t, []schema.CategoryID{ScreenIn, EvaluateOut, OverrideInPerson, OverrideEvalOut}, scr.CategoryIDs())
}

func TestBuiltinFullRangeTotals(t *testing.T) {
	s, err := core.NewStore(Screening())
	require.NoError(t, err)
	v := s.View()
	assert.Equal(t, "Jul 21 - Dec 22", v.DateRange.Full)
	assert.Equal(t, int64(23977), v.Aggregate.TotalsByCategory[ScreenIn])
	assert.Equal(t, int64(6020), v.Aggregate.TotalsByCategory[EvaluateOut])
}

func TestCatalog(t *testing.T) {
	c := Builtin()
	assert.Equal(t, []schema.DatasetID{schema.InvestigationDataset, schema.ScreeningDataset}, c.IDs())

	ds, err := c.Lookup(schema.ScreeningDataset)
	require.NoError(t, err)
	assert.Equal(t, "SDM Hotline Screening Decision", ds.Title)

	_, err = c.Lookup("nope")
	assert.ErrorContains(t, err, "investigation, screening")

	custom := Screening()
	custom.Title = "Replaced"
	c.Put(custom)
	assert.Len(t, c.List(), 2)
	ds, err = c.Lookup(schema.ScreeningDataset)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", ds.Title)
}

func TestResolvePeriod(t *testing.T) {
	ds := Screening()
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"Jul 21", 0, false},
		{"dec 22", 17, false},
		{" 3 ", 3, false},
		{"18", 0, true},
		{"-1", 0, true},
		{"Jan 30", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ResolvePeriod(ds, tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCategory(t *testing.T) {
	ds := Screening()
	id, ok := ResolveCategory(ds, "screen in")
	assert.True(t, ok)
	assert.Equal(t, ScreenIn, id)

	id, ok = ResolveCategory(ds, "EVALUATEOUT")
	assert.True(t, ok)
	assert.Equal(t, EvaluateOut, id)

	_, ok = ResolveCategory(ds, "other")
	assert.False(t, ok)
}

const yamlDataset = `
id: Quarterly
title: Quarterly Referrals
categories:
  - id: a
    display_name: Alpha
    color: "#111111"
  - id: b
    display_name: Beta
    color: "#222222"
periods: [Q1, Q2, Q3]
series:
  a: [1, 2, 3]
  b: [4, 5, 6]
`

const tomlDataset = `
id = "quarterly"
title = "Quarterly Referrals"
periods = ["Q1", "Q2", "Q3"]

[[categories]]
id = "a"
display_name = "Alpha"
color = "#111111"

[[categories]]
id = "b"
display_name = "Beta"
color = "#222222"

[series]
a = [1, 2, 3]
b = [4, 5, 6]
`

const jsonDataset = `{
  "id": "quarterly",
  "title": "Quarterly Referrals",
  "categories": [
    {"id": "a", "display_name": "Alpha", "color": "#111111"},
    {"id": "b", "display_name": "Beta", "color": "#222222"}
  ],
  "periods": ["Q1", "Q2", "Q3"],
  "series": {"a": [1, 2, 3], "b": [4, 5, 6]}
}`

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{YAMLFormat, yamlDataset},
		{TOMLFormat, tomlDataset},
		{JSONFormat, jsonDataset},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			ds, err := Decode([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, schema.DatasetID("quarterly"), ds.ID)
			assert.Equal(t, "Quarterly Referrals", ds.Title)
			assert.Equal(t, []string{"Q1", "Q2", "Q3"}, ds.Periods)
			assert.Equal(t, []int64{4, 5, 6}, ds.Series["b"])
			assert.Equal(t, "Beta", ds.Categories[1].DisplayName)
		})
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	_, err := Decode([]byte(`{"id": "x", "categories": [{"id": "a"}], "periods": ["Q1"], "series": {"a": [1, 2]}}`), JSONFormat)
	assert.ErrorIs(t, err, core.ErrInvalidDataset)

	_, err = Decode([]byte(`{"periods": ["Q1"]}`), JSONFormat)
	assert.ErrorIs(t, err, core.ErrInvalidDataset)

	_, err = Decode([]byte(`not: [valid`), YAMLFormat)
	assert.Error(t, err)
}

func TestLoadFileAndTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screening.yaml")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Screening(), YAMLFormat))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	ds, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Screening(), ds)

	_, err = LoadFile(filepath.Join(dir, "data.csv"))
	assert.ErrorContains(t, err, "unsupported dataset file extension")

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read dataset file")
}
