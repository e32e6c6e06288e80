// Package spacexapi reads the public SpaceX v3 REST feed.
package spacexapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"launchboard/lib/fetch"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("launchboard.lib.spacexapi")

const DefaultLaunchesUrl = "https://api.spacexdata.com/v3/launches"

// Record is one launch exactly as decoded from the feed.
type Record = map[string]any

type Client struct {
	http *resty.Client
}

func NewClient(http *resty.Client) Client {
	return Client{http: http}
}

// FetchLaunches fetches the JSON array of launch records at `url`. Every
// failure, including a body that is not a JSON array of objects, is a
// *fetch.Error.
func (c Client) FetchLaunches(ctx context.Context, url string) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "FetchLaunches")
	defer span.End()

	body, err := fetch.Get(ctx, c.http, url, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch launches")
		return nil, err
	}

	var records []Record
	err = json.Unmarshal(body, &records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode launches")
		return nil, &fetch.Error{Url: url, Err: fmt.Errorf("decode launches: %w", err)}
	}

	if records == nil {
		err = errors.New("decode launches: expected a JSON array")
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode launches")
		return nil, &fetch.Error{Url: url, Err: err}
	}

	span.SetAttributes(attribute.Int("launches", len(records)))
	slog.DebugContext(ctx, "fetched launches", "url", url, "count", len(records))
	return records, nil
}
