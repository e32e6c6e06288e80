package infobox

import (
	"bytes"
	"context"

	"launchboard/lib/fetch"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// wikipedia answers 403 to requests without a browser user agent
const userAgent = "Mozilla/5.0"

type ClientOptions struct {
	// wraps the transport with cloudflare's browser fingerprint workarounds
	BypassCloudflare bool
	// defaults to DefaultSelector
	Selector string
}

type Client struct {
	http     *resty.Client
	selector string
}

func NewClient(http *resty.Client, opts ClientOptions) Client {
	if opts.BypassCloudflare {
		http.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(http.GetClient().Transport)
	}
	selector := opts.Selector
	if selector == "" {
		selector = DefaultSelector
	}
	return Client{http: http, selector: selector}
}

// Fetch downloads the article at `url` and extracts its infobox.
func (c Client) Fetch(ctx context.Context, url string) (Table, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	body, err := fetch.Get(ctx, c.http, url, map[string]string{
		"User-Agent": userAgent,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch article")
		return Table{}, err
	}

	return ExtractTableMatching(ctx, bytes.NewReader(body), c.selector)
}
