package selection

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/scene-availability/internal/availability"
)

func years(pairs ...[2]int) []availability.RadarYear {
	out := make([]availability.RadarYear, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, availability.RadarYear{Year: p[0], Count: p[1]})
	}
	return out
}

func yearOf(y *availability.RadarYear) int {
	if y == nil {
		return 0
	}
	return y.Year
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name             string
		radar            []availability.RadarYear
		wantBaseline     int
		wantIntermediate int
		wantCurrent      int
	}{
		{
			name:             "good years only",
			radar:            years([2]int{2018, 30}, [2]int{2019, 60}, [2]int{2020, 70}, [2]int{2021, 10}),
			wantBaseline:     2019,
			wantIntermediate: 2019,
			wantCurrent:      2020,
		},
		{
			name:             "three good years",
			radar:            years([2]int{2017, 55}, [2]int{2018, 80}, [2]int{2019, 90}),
			wantBaseline:     2017,
			wantIntermediate: 2018,
			wantCurrent:      2019,
		},
		{
			name:             "relaxed to busiest two",
			radar:            years([2]int{2018, 5}, [2]int{2019, 8}),
			wantBaseline:     2018,
			wantIntermediate: 2018,
			wantCurrent:      2019,
		},
		{
			name:             "relaxed picks by count then orders by year",
			radar:            years([2]int{2016, 40}, [2]int{2017, 3}, [2]int{2018, 60}, [2]int{2019, 12}),
			wantBaseline:     2016,
			wantIntermediate: 2016,
			wantCurrent:      2018,
		},
		{
			name:             "relaxed ties keep input order",
			radar:            years([2]int{2020, 9}, [2]int{2018, 9}, [2]int{2019, 9}),
			wantBaseline:     2018,
			wantIntermediate: 2018,
			wantCurrent:      2020,
		},
		{
			name:             "single year",
			radar:            years([2]int{2022, 12}),
			wantBaseline:     2022,
			wantIntermediate: 0,
			wantCurrent:      2022,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(tt.radar, nil)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantBaseline, got.Baseline.Year)
			assert.Equal(t, tt.wantIntermediate, yearOf(got.Intermediate))
			assert.Equal(t, tt.wantCurrent, got.Current.Year)
		})
	}
}

func TestSelect_Empty(t *testing.T) {
	var out bytes.Buffer
	got := NewSelector(&out).Select(nil, []availability.OpticalYear{{Year: 2020, Count: 4}})
	assert.Nil(t, got)
	assert.Contains(t, out.String(), "No SAR data available for analysis setup")
}

func TestSelect_DoesNotReorderInput(t *testing.T) {
	radar := years([2]int{2020, 9}, [2]int{2018, 3})
	Select(radar, nil)
	assert.Equal(t, 2020, radar[0].Year)
	assert.Equal(t, 2018, radar[1].Year)
}

func TestSelect_Output(t *testing.T) {
	var out bytes.Buffer
	NewSelector(&out).Select(years([2]int{2018, 5}, [2]int{2019, 8}), nil)

	text := out.String()
	assert.Contains(t, text, "Setting up Analysis Periods based on SAR Data Availability")
	assert.Contains(t, text, "Limited data for temporal analysis, using available years")
	assert.Contains(t, text, "Baseline: 2018 (5 images)")
	assert.Contains(t, text, "Current: 2019 (8 images)")
}
