// Package dashboard assembles the sections of the launch dashboard out of
// the reshaped feed: which table, chart and infobox each section shows and
// the text around them.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"launchboard/lib/aggregate"
	"launchboard/lib/infobox"
	"launchboard/lib/launchdata"
	"launchboard/lib/spacexapi"
	"launchboard/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("launchboard.lib.dashboard")

type Section string

const (
	SectionRaw      Section = "raw"
	SectionLaunches Section = "launches"
	SectionPayloads Section = "payloads"
	SectionLandings Section = "landings"
	SectionReuse    Section = "reuse"
)

// Sections lists every section in menu order.
var Sections = []Section{SectionRaw, SectionLaunches, SectionPayloads, SectionLandings, SectionReuse}

func (s Section) Label() string {
	switch s {
	case SectionRaw:
		return "Raw Mission Data"
	case SectionLaunches:
		return "Launches"
	case SectionPayloads:
		return "Payloads"
	case SectionLandings:
		return "Landings"
	case SectionReuse:
		return "Reuse"
	}
	return string(s)
}

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownRocket  = errors.New("unknown rocket")
)

func ParseSection(name string) (Section, error) {
	for _, s := range Sections {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// rocket names scoring below this against every known rocket are rejected
const minRocketSimilarity = 0.7

var defaultRawColumns = []string{
	launchdata.FlightNumberColumn,
	"mission_name",
	launchdata.LaunchYearColumn,
	launchdata.RawRocketNameColumn,
	"launch_site.site_name",
	launchdata.SuccessLabelColumn,
}

type Options struct {
	// free text, matched against the rockets in the dataset, the first
	// rocket in name order is used when empty
	Rocket string
	// fetch the rocket's wiki infobox in the launches section
	Infobox bool
	// columns of the raw table, defaults to a summary of each launch
	Columns []string
}

// View is everything a section displays. Only the parts relevant to the
// section are set.
type View struct {
	Section Section
	Heading string
	Intro   string
	Notes   []string

	Table   *launchdata.Table
	Columns []string
	Chart   *aggregate.Chart

	Rockets []string
	Rocket  string
	Infobox *infobox.Table
	// the infobox failing does not fail the section
	InfoboxErr error
	Source     string
}

type Dashboard struct {
	feed       spacexapi.Client
	wiki       infobox.Client
	datasetUrl string
	wikiPages  map[string]string
}

func New(feed spacexapi.Client, wiki infobox.Client, datasetUrl string, wikiPages map[string]string) Dashboard {
	return Dashboard{
		feed:       feed,
		wiki:       wiki,
		datasetUrl: datasetUrl,
		wikiPages:  wikiPages,
	}
}

// Load fetches and reshapes the feed, once per page view.
func (d Dashboard) Load(ctx context.Context) (launchdata.Dataset, error) {
	return launchdata.Load(ctx, d.feed, d.datasetUrl)
}

// Build assembles the view of `section` out of an already loaded dataset.
func (d Dashboard) Build(ctx context.Context, dataset launchdata.Dataset, section Section, opts Options) (View, error) {
	ctx, span := tracer.Start(ctx, "Build")
	defer span.End()
	span.SetAttributes(attribute.String("section", string(section)))

	switch section {
	case SectionRaw:
		return rawView(dataset, opts), nil
	case SectionLaunches:
		return d.launchesView(ctx, dataset, opts)
	case SectionPayloads:
		return payloadsView(dataset)
	case SectionLandings:
		return landingsView(dataset)
	case SectionReuse:
		return reuseView(dataset)
	}
	return View{}, fmt.Errorf("%w: %q", ErrUnknownSection, section)
}

func rawView(dataset launchdata.Dataset, opts Options) View {
	columns := opts.Columns
	if len(columns) == 0 {
		for _, c := range defaultRawColumns {
			if dataset.Launches.HasColumn(c) {
				columns = append(columns, c)
			}
		}
	}

	// landings holds exactly the launches that already flew
	return View{
		Section: SectionRaw,
		Heading: "RAW MISSION DATA",
		Intro: fmt.Sprintf(
			"The mission data covers a wide range of information about SpaceX's %d launches ranging from Rockets, Payloads, Cores, Landpads...",
			dataset.Landings.Len(),
		),
		Table:   &dataset.Launches,
		Columns: columns,
	}
}

// ResolveRocket matches free text against the rocket names of the dataset.
func ResolveRocket(rockets []string, input string) (string, error) {
	if len(rockets) == 0 {
		return "", fmt.Errorf("%w: dataset has no rockets", ErrUnknownRocket)
	}
	if input == "" {
		return rockets[0], nil
	}
	match, similarity := textutil.BestMatch(input, rockets)
	if similarity < minRocketSimilarity {
		return "", fmt.Errorf("%w: %q (known: %v)", ErrUnknownRocket, input, rockets)
	}
	return match, nil
}

func (d Dashboard) launchesView(ctx context.Context, dataset launchdata.Dataset, opts Options) (View, error) {
	launches := dataset.Launches
	successful := launches.Where(launchdata.LaunchSuccessColumn, true).Len()
	rockets := launches.Unique(launchdata.RawRocketNameColumn)

	rocket, err := ResolveRocket(rockets, opts.Rocket)
	if err != nil {
		return View{}, err
	}

	chart, err := aggregate.StackedBar(
		launches.Where(launchdata.RawRocketNameColumn, rocket),
		[]string{launchdata.LaunchYearColumn, launchdata.SuccessLabelColumn},
		"Number of launches",
		fmt.Sprintf("%s's Launches History", rocket),
	)
	if err != nil {
		return View{}, err
	}

	view := View{
		Section: SectionLaunches,
		Heading: "LAUNCHES HISTORY",
		Intro: fmt.Sprintf(
			"As of today, SpaceX has successfully launched %d rockets. Designed and operated by SpaceX, the rocket fleet includes: %s.",
			successful, joinNames(rockets),
		),
		Chart:   &chart,
		Rockets: rockets,
		Rocket:  rocket,
	}

	if !opts.Infobox {
		return view, nil
	}
	page, ok := d.wikiPages[rocket]
	if !ok {
		view.InfoboxErr = fmt.Errorf("no wiki page configured for %s", rocket)
		return view, nil
	}
	table, err := d.wiki.Fetch(ctx, page)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch infobox", "rocket", rocket, "url", page, "err", err)
		view.InfoboxErr = err
		return view, nil
	}
	view.Infobox = &table
	view.Source = page
	return view, nil
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "none"
	case 1:
		return names[0]
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}

func totalMass(payloads launchdata.Table) float64 {
	var total float64
	for _, v := range payloads.Column(launchdata.PayloadMassColumn) {
		mass, ok := v.(float64)
		if ok {
			total += mass
		}
	}
	return math.Round(total)
}

func payloadsView(dataset launchdata.Dataset) (View, error) {
	chart, err := aggregate.StackedPayloads(dataset.Payloads, []string{
		launchdata.LaunchYearColumn,
		launchdata.OrbitColumn,
		launchdata.PayloadMassColumn,
	})
	if err != nil {
		return View{}, err
	}

	return View{
		Section: SectionPayloads,
		Heading: "PAYLOADS HISTORY",
		Intro: fmt.Sprintf(
			"SpaceX has launched a total of %.0f kilograms worth of payloads into a variety of orbits. "+
				"The payloads' weight can range from the smallest cubesats of 1 kilogram, to comsats over 5 tonnes.",
			totalMass(dataset.Payloads),
		),
		Notes: []string{
			"VLEO = Very Low Earth Orbit, GTO = Geostationary Transfer Orbit, PO = Polar Orbit, ISS = International Space Station",
		},
		Chart: &chart,
	}, nil
}

func landingsView(dataset launchdata.Dataset) (View, error) {
	chart, err := aggregate.StackedBar(
		dataset.Landings,
		[]string{launchdata.LaunchYearColumn, launchdata.LandingTypeColumn},
		"Number of landings",
		"Landings History by Platform",
	)
	if err != nil {
		return View{}, err
	}

	return View{
		Section: SectionLandings,
		Heading: "LANDINGS HISTORY",
		Intro: "After launch, most rockets are designed to burn up on re-entry. SpaceX rockets are designed " +
			"not only to withstand re-entry, but also to return to the launch pad for a vertical landing.",
		Notes: []string{"ASDS = Autonomous Spaceport Drone Ship, RTLS = Return To Launch Site"},
		Chart: &chart,
	}, nil
}

func reuseView(dataset launchdata.Dataset) (View, error) {
	chart, err := aggregate.StackedBar(
		dataset.Landings,
		[]string{launchdata.LaunchYearColumn, launchdata.ReuseLabelColumn},
		"Number of launches",
		"Rocket Reuse History",
	)
	if err != nil {
		return View{}, err
	}

	return View{
		Section: SectionReuse,
		Heading: "VEHICLE REFLOWN HISTORY",
		Intro: "Most rockets burn up upon re-entry. SpaceX rockets return to the launchpad and are flown again, " +
			"which substantially reduces the cost of space access.",
		Chart: &chart,
	}, nil
}
