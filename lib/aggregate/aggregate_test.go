package aggregate

import (
	"errors"
	"math/rand"
	"testing"

	"launchboard/lib/flatten"
	"launchboard/lib/launchdata"
	"launchboard/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func landingsTable() launchdata.Table {
	return launchdata.ToTable([]flatten.Row{
		{"launch_success": true, "launch_year": "2015", "landing_type": "RTLS"},
		{"launch_success": true, "launch_year": "2016", "landing_type": "ASDS"},
		{"launch_success": true, "launch_year": "2016", "landing_type": "ASDS"},
		{"launch_success": true, "launch_year": "2016", "landing_type": "RTLS"},
		{"launch_success": false, "launch_year": "2017", "landing_type": "ASDS"},
		{"launch_success": true, "launch_year": "2017", "landing_type": nil},
	})
}

func TestStackedBar(t *testing.T) {
	chart, err := StackedBar(
		landingsTable(),
		[]string{"launch_year", "landing_type"},
		"Number of landings",
		"Landings History by Platform",
	)
	require.NoError(t, err)

	expect := Chart{
		Title:  "Landings History by Platform",
		XLabel: "Years",
		YLabel: "Number of landings",
		Index:  []string{"2015", "2016", "2017"},
		Series: []Series{
			{Name: "ASDS", Values: []float64{0, 2, 1}, Bottom: []float64{0, 0, 0}},
			{Name: "RTLS", Values: []float64{1, 1, 0}, Bottom: []float64{0, 2, 1}},
		},
	}
	if diff := cmp.Diff(expect, chart); diff != "" {
		t.Fatalf("unexpected chart (-want +got):\n%s", diff)
	}
	require.Equal(t, []float64{1, 3, 1}, chart.Totals())
	require.Equal(t, 3.0, chart.Max())
	require.Equal(t, 3.0, chart.Series[1].Top(1))
}

func TestStackedBarErrors(t *testing.T) {
	_, err := StackedBar(landingsTable(), []string{"launch_year"}, "", "")
	require.Error(t, err)

	_, err = StackedBar(landingsTable(), []string{"launch_year", "orbit"}, "", "")
	require.True(t, errors.Is(err, ErrUnknownColumn))
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func TestStackedBarCountConservation(t *testing.T) {
	rndm := rand.New(rand.NewSource(7))
	dataset := launchdata.Reshape(testutil.RandomLaunches(rndm, 300))

	cases := []struct {
		table launchdata.Table
		cols  []string
	}{
		{table: dataset.Launches, cols: []string{launchdata.LaunchYearColumn, launchdata.SuccessLabelColumn}},
		{table: dataset.Launches, cols: []string{launchdata.LaunchYearColumn, launchdata.RawRocketNameColumn}},
		{table: dataset.Landings, cols: []string{launchdata.LaunchYearColumn, launchdata.RocketNameColumn}},
		{table: dataset.Payloads, cols: []string{launchdata.LaunchYearColumn, launchdata.OrbitColumn}},
		{table: dataset.Payloads, cols: []string{launchdata.RocketNameColumn, launchdata.LaunchYearColumn, launchdata.OrbitColumn}},
	}

	for _, test := range cases {
		// rows with a nil grouping value are not counted, keep complete rows only
		complete := test.table.Filter(func(row flatten.Row) bool {
			for _, c := range test.cols {
				if row[c] == nil {
					return false
				}
			}
			return true
		})

		chart, err := StackedBar(complete, test.cols, "Number of launches", "")
		require.NoError(t, err)
		require.Equal(t, float64(complete.Len()), sum(chart.Totals()), test.cols)
	}
}

func TestStackedPayloads(t *testing.T) {
	table := launchdata.ToTable([]flatten.Row{
		{"launch_success": true, "launch_year": "2017", "orbit": "GTO", "payload_mass_kg": 5000.0},
		{"launch_success": true, "launch_year": "2017", "orbit": "ISS", "payload_mass_kg": 2500.0},
		{"launch_success": true, "launch_year": "2017", "orbit": "LEO", "payload_mass_kg": 100.0},
		{"launch_success": true, "launch_year": "2018", "orbit": "GTO", "payload_mass_kg": 6000.0},
		{"launch_success": true, "launch_year": "2018", "orbit": "PO", "payload_mass_kg": 200.0},
		{"launch_success": true, "launch_year": "2018", "orbit": "ISS", "payload_mass_kg": nil},
	})

	chart, err := StackedPayloads(table, []string{"launch_year", "orbit", "payload_mass_kg"})
	require.NoError(t, err)

	// totals: GTO 11000, ISS 2500, LEO 100, PO 200, mean 3450
	expect := Chart{
		Title:  "Payload Upmass by Orbit",
		XLabel: "Years",
		YLabel: "Payload mass (kg)",
		Index:  []string{"2017", "2018"},
		Series: []Series{
			{Name: OthersSeries, Values: []float64{2600, 200}, Bottom: []float64{0, 0}},
			{Name: "GTO", Values: []float64{5000, 6000}, Bottom: []float64{2600, 200}},
		},
	}
	if diff := cmp.Diff(expect, chart); diff != "" {
		t.Fatalf("unexpected chart (-want +got):\n%s", diff)
	}
}

func TestStackedBarSortsNumericIndex(t *testing.T) {
	var rows []flatten.Row
	for _, flight := range []float64{10, 2, 11, 9, 2} {
		rows = append(rows, flatten.Row{"launch_success": true, "flight": flight, "outcome": "ok"})
	}

	chart, err := StackedBar(launchdata.ToTable(rows), []string{"flight", "outcome"}, "Launches", "By flight")
	require.NoError(t, err)
	require.Equal(t, []string{"2", "9", "10", "11"}, chart.Index)
	require.Equal(t, []float64{2, 1, 1, 1}, chart.Series[0].Values)
}

func TestLabelLess(t *testing.T) {
	require.True(t, labelLess("9", "10"))
	require.False(t, labelLess("10", "9"))
	require.True(t, labelLess("2.5", "3"))
	require.True(t, labelLess("2017", "ASDS"))
	require.False(t, labelLess("ASDS", "2017"))
	require.True(t, labelLess("ASDS", "RTLS"))
}

func TestStackedPayloadsOthersOrbit(t *testing.T) {
	table := launchdata.ToTable([]flatten.Row{
		{"launch_success": true, "launch_year": "2019", "orbit": "OTHERS", "payload_mass_kg": 9000.0},
		{"launch_success": true, "launch_year": "2019", "orbit": "LEO", "payload_mass_kg": 1.0},
	})

	chart, err := StackedPayloads(table, []string{"launch_year", "orbit", "payload_mass_kg"})
	require.NoError(t, err)

	expect := []Series{
		{Name: OthersSeries, Values: []float64{9001}, Bottom: []float64{0}},
	}
	if diff := cmp.Diff(expect, chart.Series); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}
}

func TestStackedPayloadsOrder(t *testing.T) {
	var rows []flatten.Row
	masses := map[string]float64{
		"GTO": 9000, "ISS": 8000, "PO": 7000, "VLEO": 6000, "LEO": 5500,
		"SSO": 10, "HCO": 10, "MEO": 10, "ES-L1": 10,
	}
	for orbit, mass := range masses {
		rows = append(rows, flatten.Row{
			"launch_success": true, "launch_year": "2019", "orbit": orbit, "payload_mass_kg": mass,
		})
	}

	chart, err := StackedPayloads(launchdata.ToTable(rows), []string{"launch_year", "orbit", "payload_mass_kg"})
	require.NoError(t, err)

	names := make([]string, len(chart.Series))
	for i, s := range chart.Series {
		names[i] = s.Name
	}
	require.Equal(t, []string{OthersSeries, "VLEO", "PO", "ISS", "GTO", "LEO"}, names)

	var below float64
	for _, s := range chart.Series {
		require.Equal(t, below, s.Bottom[0], s.Name)
		below += s.Values[0]
	}
}

func TestStackedPayloadsMassConservation(t *testing.T) {
	rndm := rand.New(rand.NewSource(1234))
	payloads := launchdata.Reshape(testutil.RandomLaunches(rndm, 400)).Payloads

	chart, err := StackedPayloads(payloads, []string{
		launchdata.LaunchYearColumn, launchdata.OrbitColumn, launchdata.PayloadMassColumn,
	})
	require.NoError(t, err)

	expected := map[string]float64{}
	for _, row := range payloads.Rows {
		year := launchdata.FormatValue(row[launchdata.LaunchYearColumn])
		mass, _ := row[launchdata.PayloadMassColumn].(float64)
		expected[year] += mass
	}

	totals := chart.Totals()
	require.Len(t, totals, len(expected))
	for i, year := range chart.Index {
		require.InDelta(t, expected[year], totals[i], 1e-6, year)
	}
}

func TestStackedPayloadsErrors(t *testing.T) {
	_, err := StackedPayloads(landingsTable(), []string{"launch_year", "orbit"})
	require.Error(t, err)

	_, err = StackedPayloads(landingsTable(), []string{"launch_year", "orbit", "payload_mass_kg"})
	require.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestStackedPayloadsEmpty(t *testing.T) {
	table := launchdata.Table{Columns: []string{"launch_year", "orbit", "payload_mass_kg"}}
	chart, err := StackedPayloads(table, []string{"launch_year", "orbit", "payload_mass_kg"})
	require.NoError(t, err)
	require.Empty(t, chart.Index)
	require.Len(t, chart.Series, 1)
	require.Equal(t, OthersSeries, chart.Series[0].Name)
}
