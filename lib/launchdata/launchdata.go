// Package launchdata reshapes the nested launch feed into the three tables
// the dashboard works with: all launches, landings (first stage cores) and
// payloads (second stage payloads).
package launchdata

import (
	"context"
	"log/slog"

	"launchboard/lib/flatten"
	"launchboard/lib/spacexapi"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("launchboard.lib.launchdata")

const (
	CoresSelector    = "rocket.first_stage.cores"
	PayloadsSelector = "rocket.second_stage.payloads"
)

// columns shared by every derived row
const (
	FlightNumberColumn  = "flight_number"
	RocketNameColumn    = "rocket_name"
	LaunchYearColumn    = "launch_year"
	LaunchSuccessColumn = "launch_success"

	// rocket name column of the raw launches table
	RawRocketNameColumn = "rocket.rocket_name"

	SuccessLabelColumn = "launch_success_or_failure"
	ReuseLabelColumn   = "reflown_or_first_flight"
	ReusedColumn       = "reused"
	LandingTypeColumn  = "landing_type"
	OrbitColumn        = "orbit"
	PayloadMassColumn  = "payload_mass_kg"
)

// BuildTable produces one row per launch: the sub-collection at `selector`
// is flattened as a whole, so when a launch carries several cores (or
// payloads) their leaves collide and the last element wins. The launch's
// flight number, rocket name, launch year and success flag are then written
// over the row.
//
// A missing or null sub-collection contributes no columns. Records without a
// flight number or a rocket name are skipped.
func BuildTable(launches []spacexapi.Record, selector string) []flatten.Row {
	rows := make([]flatten.Row, 0, len(launches))
	for i, launch := range launches {
		flightNumber, _ := flatten.Lookup(launch, FlightNumberColumn)
		rocketName, _ := flatten.Lookup(launch, RawRocketNameColumn)
		if flightNumber == nil || rocketName == nil {
			slog.Warn(
				"skipping launch without identification",
				"index", i,
				"flight_number", flightNumber,
				"rocket_name", rocketName,
			)
			continue
		}

		row := flatten.Row{}
		sub, ok := flatten.Lookup(launch, selector)
		if ok && sub != nil {
			row = flatten.Flatten(sub)
		}

		launchYear, _ := flatten.Lookup(launch, LaunchYearColumn)
		launchSuccess, _ := flatten.Lookup(launch, LaunchSuccessColumn)
		row[FlightNumberColumn] = flightNumber
		row[RocketNameColumn] = rocketName
		row[LaunchYearColumn] = launchYear
		row[LaunchSuccessColumn] = launchSuccess

		rows = append(rows, row)
	}
	return rows
}

// ToTable gathers rows into a Table, the columns are the union of every
// row's keys in first-seen order. Rows whose success flag is null or absent
// are dropped, their columns are kept.
func ToTable(rows []flatten.Row) Table {
	var table Table
	seen := map[string]struct{}{}
	for _, row := range rows {
		for _, key := range flatten.Keys(row) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			table.Columns = append(table.Columns, key)
		}
		if row[LaunchSuccessColumn] == nil {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Dataset holds the three tables a dashboard renders.
type Dataset struct {
	Launches Table
	Landings Table
	Payloads Table
}

// BoolLabel maps a boolean cell to one of two labels, anything that is not
// a boolean maps to nil.
func BoolLabel(column, ifTrue, ifFalse string) func(flatten.Row) any {
	return func(row flatten.Row) any {
		value, ok := row[column].(bool)
		if !ok {
			return nil
		}
		if value {
			return ifTrue
		}
		return ifFalse
	}
}

// Reshape builds the dataset out of decoded launch records.
func Reshape(records []spacexapi.Record) Dataset {
	landings := ToTable(BuildTable(records, CoresSelector))
	payloads := ToTable(BuildTable(records, PayloadsSelector))

	raw := make([]flatten.Row, len(records))
	for i, r := range records {
		raw[i] = flatten.Normalize(r)
	}
	launches := ToTable(raw)

	launches.Derive(SuccessLabelColumn, BoolLabel(LaunchSuccessColumn, "Success", "Failure"))
	landings.Derive(ReuseLabelColumn, BoolLabel(ReusedColumn, "Reflown", "First flight"))

	return Dataset{
		Launches: launches,
		Landings: landings,
		Payloads: payloads,
	}
}

// Load fetches the feed at `url` and reshapes it. Fetch failures are
// returned as *fetch.Error.
func Load(ctx context.Context, client spacexapi.Client, url string) (Dataset, error) {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	records, err := client.FetchLaunches(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch launches")
		return Dataset{}, err
	}

	dataset := Reshape(records)
	span.SetAttributes(
		attribute.Int("launches", dataset.Launches.Len()),
		attribute.Int("landings", dataset.Landings.Len()),
		attribute.Int("payloads", dataset.Payloads.Len()),
	)
	slog.InfoContext(
		ctx, "loaded launch data",
		"records", len(records),
		"launches", dataset.Launches.Len(),
		"landings", dataset.Landings.Len(),
		"payloads", dataset.Payloads.Len(),
	)
	return dataset, nil
}
