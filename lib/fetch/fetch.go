// Package fetch is the HTTP capability shared by the launch feed and the wiki
// scraper: one GET, failures reported as *Error.
package fetch

import (
	"context"
	"fmt"
	"time"

	"launchboard/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("launchboard.lib.fetch")

// Error is returned for network failures, non-2xx responses and bodies that
// cannot be decoded.
type Error struct {
	Url string
	// 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.Url, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.Url, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type ClientOptions struct {
	// defaults to 30 seconds
	Timeout   time.Duration
	UserAgent string
	// receives exchange dumps in verbose mode, can be nil
	Output restyutil.InstrumentOutput
}

// NewClient creates an instrumented resty client.
func NewClient(name string, opts ClientOptions) *resty.Client {
	client := resty.New()
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	restyutil.InstrumentClient(client, otel.Tracer(name), opts.Output)
	return client
}

// Get performs a GET request, any header in `headers` overrides the client
// headers.
func Get(ctx context.Context, client *resty.Client, url string, headers map[string]string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, &Error{Url: url, Err: err}
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "unexpected status")
		return nil, &Error{
			Url:        url,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", res.Status()),
		}
	}

	return res.Body(), nil
}
