package availability

// Season month groupings. The wet season of year Y runs from November of Y
// through April of Y+1, so its January to April months are also part of
// Y+1's calendar total.
var (
	DryMonths         = []int{5, 6, 7, 8, 9, 10}
	WetMonthsThisYear = []int{11, 12}
	WetMonthsNextYear = []int{1, 2, 3, 4}
)

// MonthlyCounts holds image counts keyed by year then month.
type MonthlyCounts map[int]map[int]int

// Set records the count for a month.
func (m MonthlyCounts) Set(year, month, n int) {
	if m[year] == nil {
		m[year] = make(map[int]int, 12)
	}
	m[year][month] = n
}

// Get returns the count for a month, zero when unrecorded.
func (m MonthlyCounts) Get(year, month int) int {
	return m[year][month]
}

func (m MonthlyCounts) sum(year int, months []int) int {
	total := 0
	for _, month := range months {
		total += m.Get(year, month)
	}
	return total
}

// AggregateSeasons folds monthly counts into one record per year, in the
// order given. The next year's January to April only count towards a wet
// season when that year is itself in years.
func AggregateSeasons(years []int, counts MonthlyCounts) []OpticalYear {
	inRange := make(map[int]bool, len(years))
	for _, y := range years {
		inRange[y] = true
	}

	out := make([]OpticalYear, 0, len(years))
	for _, y := range years {
		wet := counts.sum(y, WetMonthsThisYear)
		if inRange[y+1] {
			wet += counts.sum(y+1, WetMonthsNextYear)
		}

		out = append(out, OpticalYear{
			Year:           y,
			DrySeasonCount: counts.sum(y, DryMonths),
			WetSeasonCount: wet,
			Count:          counts.sum(y, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}),
		})
	}
	return out
}
