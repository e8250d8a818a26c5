// Package dataset provides the built-in datasets and loads custom ones from disk.
package dataset

import "github.com/huangsam/casewatch/schema"

// Category ids of the investigation dataset.
const (
	Timely    schema.CategoryID = "timely"
	NotTimely schema.CategoryID = "notTimely"
	Pending   schema.CategoryID = "pending"
)

// Category ids of the screening dataset.
const (
	ScreenIn         schema.CategoryID = "screenIn"
	EvaluateOut      schema.CategoryID = "evaluateOut"
	OverrideInPerson schema.CategoryID = "overrideInPerson"
	OverrideEvalOut  schema.CategoryID = "overrideEvalOut"
)

// Investigation returns the "Time to Investigation" dataset: 24 months, 3 categories.
func Investigation() *schema.Dataset {
	return &schema.Dataset{
		ID:    schema.InvestigationDataset,
		Title: "Time to Investigation",
		Categories: []schema.CategoryDescriptor{
			{ID: Timely, DisplayName: "Investigation Timely", Color: "#2e7d32"},
			{ID: NotTimely, DisplayName: "Investigation Not Timely", Color: "#c62828"},
			{ID: Pending, DisplayName: "Pending Investigation", Color: "#f9a825"},
		},
		RawSeries: schema.RawSeries{
			Periods: monthLabels(1, 21, 24),
			Series: map[schema.CategoryID][]int64{
				Timely:    {45, 52, 68, 85, 120, 135, 142, 158, 165, 172, 180, 188, 195, 210, 225, 248, 265, 285, 310, 335, 358, 382, 405, 1737},
				NotTimely: {12, 15, 18, 22, 28, 32, 35, 38, 42, 45, 48, 52, 55, 58, 62, 65, 68, 72, 75, 78, 82, 85, 88, 152},
				Pending:   {3, 4, 5, 6, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 24},
			},
		},
	}
}

// Screening returns the "SDM Hotline Screening Decision" dataset: 18 months, 4 categories.
func Screening() *schema.Dataset {
	return &schema.Dataset{
		ID:    schema.ScreeningDataset,
		Title: "SDM Hotline Screening Decision",
		Categories: []schema.CategoryDescriptor{
			{ID: ScreenIn, DisplayName: "Screen In", Color: "#3366cc"},
			{ID: EvaluateOut, DisplayName: "Evaluate Out", Color: "#cc33cc"},
			{ID: OverrideInPerson, DisplayName: "Override to In Person", Color: "#00cc99"},
			{ID: OverrideEvalOut, DisplayName: "Override to Eval Out", Color: "#ff3399"},
		},
		RawSeries: schema.RawSeries{
			Periods: monthLabels(7, 21, 18),
			Series: map[schema.CategoryID][]int64{
				ScreenIn:         {950, 960, 1120, 1180, 1190, 1220, 1290, 1250, 1230, 1310, 1420, 1360, 1380, 1440, 1560, 1602, 1750, 1765},
				EvaluateOut:      {380, 390, 310, 320, 330, 325, 300, 305, 315, 300, 290, 310, 320, 360, 350, 370, 365, 380},
				OverrideInPerson: {40, 45, 35, 42, 40, 38, 41, 39, 45, 40, 38, 42, 40, 35, 38, 28, 30, 28},
				OverrideEvalOut:  {30, 28, 25, 30, 28, 25, 27, 26, 30, 28, 25, 27, 26, 25, 25, 21, 22, 21},
			},
		},
	}
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// monthLabels returns n labels like "Jul 21", starting at the given 1-based month and two-digit year.
func monthLabels(month, year, n int) []string {
	labels := make([]string, 0, n)
	m, y := month-1, year
	for range n {
		labels = append(labels, monthNames[m]+" "+twoDigits(y))
		m++
		if m == 12 {
			m, y = 0, y+1
		}
	}
	return labels
}

func twoDigits(y int) string {
	y %= 100
	return string([]byte{byte('0' + y/10), byte('0' + y%10)})
}
