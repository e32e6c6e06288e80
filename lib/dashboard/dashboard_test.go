package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"launchboard/lib/aggregate"
	"launchboard/lib/fetch"
	"launchboard/lib/infobox"
	"launchboard/lib/launchdata"
	"launchboard/lib/spacexapi"
	"launchboard/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const feed = `[
	{"flight_number": 1, "mission_name": "FalconSat", "launch_year": "2006", "launch_success": false,
	 "launch_site": {"site_name": "Kwajalein Atoll"},
	 "rocket": {"rocket_name": "Falcon 1",
		"first_stage": {"cores": [{"core_serial": "Merlin1A", "reused": false, "landing_type": null}]},
		"second_stage": {"payloads": [{"payload_id": "FalconSAT-2", "orbit": "LEO", "payload_mass_kg": 20}]}}},
	{"flight_number": 40, "mission_name": "CRS-10", "launch_year": "2017", "launch_success": true,
	 "launch_site": {"site_name": "KSC LC 39A"},
	 "rocket": {"rocket_name": "Falcon 9",
		"first_stage": {"cores": [{"core_serial": "B1031", "reused": false, "landing_type": "RTLS"}]},
		"second_stage": {"payloads": [{"payload_id": "CRS-10", "orbit": "ISS", "payload_mass_kg": 2500}]}}},
	{"flight_number": 41, "mission_name": "SES-10", "launch_year": "2017", "launch_success": true,
	 "launch_site": {"site_name": "KSC LC 39A"},
	 "rocket": {"rocket_name": "Falcon 9",
		"first_stage": {"cores": [{"core_serial": "B1021", "reused": true, "landing_type": "ASDS"}]},
		"second_stage": {"payloads": [{"payload_id": "SES-10", "orbit": "GTO", "payload_mass_kg": 5000}]}}},
	{"flight_number": 60, "mission_name": "Lost", "launch_year": "2018", "launch_success": false,
	 "launch_site": {"site_name": "VAFB SLC 4E"},
	 "rocket": {"rocket_name": "Falcon 9",
		"first_stage": {"cores": [{"core_serial": "B1040", "reused": false, "landing_type": null}]},
		"second_stage": {"payloads": [{"payload_id": "Sat", "orbit": "PO", "payload_mass_kg": 500}]}}},
	{"flight_number": 99, "mission_name": "Upcoming", "launch_year": "2020", "launch_success": null,
	 "rocket": {"rocket_name": "Falcon 9",
		"first_stage": {"cores": [{"core_serial": null, "reused": null}]},
		"second_stage": {"payloads": []}}}
]`

const falcon9Article = `<html><body>
<table class="infobox hproduct">
	<tr><th colspan="2">Falcon 9</th></tr>
	<tr><th>Manufacturer</th><td>SpaceX</td></tr>
	<tr><th>Height</th><td>70 m</td></tr>
</table>
</body></html>`

func testDataset(t testing.TB) launchdata.Dataset {
	var records []spacexapi.Record
	err := json.Unmarshal([]byte(feed), &records)
	if err != nil {
		t.Fatal(err)
	}
	return launchdata.Reshape(records)
}

// newTestSources serves the launch feed under /v3/launches and the Falcon 9
// article under /wiki/Falcon_9, anything else answers 500.
func newTestSources(t testing.TB) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/launches":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(feed))
		case "/wiki/Falcon_9":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(falcon9Article))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestDashboard(srv *httptest.Server, datasetPath string) Dashboard {
	feedHttp := fetch.NewClient("test", fetch.ClientOptions{})
	return New(
		spacexapi.NewClient(feedHttp),
		infobox.NewClient(fetch.NewClient("test-wiki", fetch.ClientOptions{}), infobox.ClientOptions{}),
		srv.URL+datasetPath,
		map[string]string{
			"Falcon 9": srv.URL + "/wiki/Falcon_9",
			"Falcon 1": srv.URL + "/wiki/Falcon_1",
		},
	)
}

func TestParseSection(t *testing.T) {
	for _, s := range Sections {
		parsed, err := ParseSection(string(s))
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}
	_, err := ParseSection("orbits")
	require.ErrorIs(t, err, ErrUnknownSection)
}

func TestResolveRocket(t *testing.T) {
	rockets := []string{"Falcon 1", "Falcon 9", "Falcon Heavy"}

	testCases := []struct {
		input  string
		expect string
	}{
		{input: "", expect: "Falcon 1"},
		{input: "Falcon 9", expect: "Falcon 9"},
		{input: "falcon9", expect: "Falcon 9"},
		{input: "  FALCON heavy ", expect: "Falcon Heavy"},
		{input: "Falcn 9", expect: "Falcon 9"},
	}
	for _, test := range testCases {
		rocket, err := ResolveRocket(rockets, test.input)
		require.NoError(t, err, test.input)
		require.Equal(t, test.expect, rocket, test.input)
	}

	_, err := ResolveRocket(rockets, "Starship")
	require.ErrorIs(t, err, ErrUnknownRocket)
	_, err = ResolveRocket(nil, "Falcon 9")
	require.ErrorIs(t, err, ErrUnknownRocket)
}

func TestRawView(t *testing.T) {
	d := Dashboard{}
	view, err := d.Build(context.Background(), testDataset(t), SectionRaw, Options{})
	require.NoError(t, err)

	require.Contains(t, view.Intro, "SpaceX's 4 launches")
	require.Equal(t, 4, view.Table.Len())
	require.Equal(t, []string{
		"flight_number",
		"mission_name",
		"launch_year",
		"rocket.rocket_name",
		"launch_site.site_name",
		"launch_success_or_failure",
	}, view.Columns)

	view, err = d.Build(context.Background(), testDataset(t), SectionRaw, Options{
		Columns: []string{"mission_name"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"mission_name"}, view.Columns)
}

func TestLaunchesView(t *testing.T) {
	d := Dashboard{}
	view, err := d.Build(context.Background(), testDataset(t), SectionLaunches, Options{Rocket: "falcon 9"})
	require.NoError(t, err)

	require.Equal(t, "Falcon 9", view.Rocket)
	require.Equal(t, []string{"Falcon 1", "Falcon 9"}, view.Rockets)
	require.Contains(t, view.Intro, "successfully launched 2 rockets")
	require.Contains(t, view.Intro, "Falcon 1, Falcon 9")
	require.Nil(t, view.Infobox)
	require.NoError(t, view.InfoboxErr)

	require.Equal(t, "Falcon 9's Launches History", view.Chart.Title)
	require.Equal(t, "Number of launches", view.Chart.YLabel)
	require.Equal(t, []string{"2017", "2018"}, view.Chart.Index)
	expect := []aggregate.Series{
		{Name: "Failure", Values: []float64{0, 1}, Bottom: []float64{0, 0}},
		{Name: "Success", Values: []float64{2, 0}, Bottom: []float64{0, 1}},
	}
	if diff := cmp.Diff(expect, view.Chart.Series); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}

	_, err = d.Build(context.Background(), testDataset(t), SectionLaunches, Options{Rocket: "Starship"})
	require.ErrorIs(t, err, ErrUnknownRocket)
}

func TestLaunchesInfobox(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:dashboard")
	defer cleanup()

	srv := newTestSources(t)
	d := newTestDashboard(srv, "/v3/launches")
	ctx := context.Background()

	view, err := d.Build(ctx, testDataset(t), SectionLaunches, Options{Rocket: "Falcon 9", Infobox: true})
	require.NoError(t, err)
	require.NoError(t, view.InfoboxErr)
	require.Equal(t, []string{"Falcon 9", "Falcon 9"}, view.Infobox.Header)
	require.Equal(t, [][]string{
		{"Manufacturer", "SpaceX"},
		{"Height", "70 m"},
	}, view.Infobox.Rows)
	require.Equal(t, srv.URL+"/wiki/Falcon_9", view.Source)

	// the Falcon 1 article answers 500, the section still renders
	view, err = d.Build(ctx, testDataset(t), SectionLaunches, Options{Rocket: "Falcon 1", Infobox: true})
	require.NoError(t, err)
	require.NotNil(t, view.Chart)
	require.Nil(t, view.Infobox)
	var fetchErr *fetch.Error
	require.True(t, errors.As(view.InfoboxErr, &fetchErr))
}

func TestPayloadsView(t *testing.T) {
	view, err := Dashboard{}.Build(context.Background(), testDataset(t), SectionPayloads, Options{})
	require.NoError(t, err)

	require.Contains(t, view.Intro, "a total of 8020 kilograms")
	require.Equal(t, []string{"2006", "2017", "2018"}, view.Chart.Index)

	names := make([]string, len(view.Chart.Series))
	for i, s := range view.Chart.Series {
		names[i] = s.Name
	}
	require.Equal(t, []string{aggregate.OthersSeries, "ISS", "GTO"}, names)
	require.Equal(t, []float64{20, 0, 500}, view.Chart.Series[0].Values)
	require.Equal(t, []float64{20, 7500, 500}, view.Chart.Totals())
}

func TestLandingsView(t *testing.T) {
	view, err := Dashboard{}.Build(context.Background(), testDataset(t), SectionLandings, Options{})
	require.NoError(t, err)

	require.Equal(t, []string{"2017"}, view.Chart.Index)
	expect := []aggregate.Series{
		{Name: "ASDS", Values: []float64{1}, Bottom: []float64{0}},
		{Name: "RTLS", Values: []float64{1}, Bottom: []float64{1}},
	}
	if diff := cmp.Diff(expect, view.Chart.Series); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}
	require.NotEmpty(t, view.Notes)
}

func TestReuseView(t *testing.T) {
	view, err := Dashboard{}.Build(context.Background(), testDataset(t), SectionReuse, Options{})
	require.NoError(t, err)

	require.Equal(t, []string{"2006", "2017", "2018"}, view.Chart.Index)
	expect := []aggregate.Series{
		{Name: "First flight", Values: []float64{1, 1, 1}, Bottom: []float64{0, 0, 0}},
		{Name: "Reflown", Values: []float64{0, 1, 0}, Bottom: []float64{1, 1, 1}},
	}
	if diff := cmp.Diff(expect, view.Chart.Series); diff != "" {
		t.Fatalf("unexpected series (-want +got):\n%s", diff)
	}
}

func TestBuildUnknownSection(t *testing.T) {
	_, err := Dashboard{}.Build(context.Background(), testDataset(t), Section("orbits"), Options{})
	require.ErrorIs(t, err, ErrUnknownSection)
}

func TestWriteText(t *testing.T) {
	dataset := testDataset(t)
	for _, section := range Sections {
		view, err := Dashboard{}.Build(context.Background(), dataset, section, Options{})
		require.NoError(t, err)

		buff := bytes.NewBuffer(nil)
		WriteText(buff, view, DefaultTextOptions())
		out := buff.String()
		require.Contains(t, out, view.Heading, section)
		if view.Chart != nil {
			require.Contains(t, out, view.Chart.Title, section)
		}
	}

	view := View{Heading: "LAUNCHES HISTORY", InfoboxErr: errors.New("boom")}
	buff := bytes.NewBuffer(nil)
	WriteText(buff, view, DefaultTextOptions())
	require.True(t, strings.Contains(buff.String(), "infobox unavailable: boom"))
}
