package globals

import (
	"context"

	"launchboard/internal/config"
	"launchboard/lib/dashboard"
	"launchboard/lib/infobox"
)

type key struct{}

type Value struct {
	Config    config.Config
	Dashboard dashboard.Dashboard
	Wiki      infobox.Client
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
