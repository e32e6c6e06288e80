package config

import (
	"time"

	"launchboard/lib/configutil"
	"launchboard/lib/spacexapi"
)

const DefaultPath = "launchboard.json5"

type WikiConfig struct {
	// rocket name -> article url
	Pages            map[string]string `json:"pages"`
	BypassCloudflare bool              `json:"bypass_cloudflare"`
}

type Config struct {
	DatasetUrl     string     `json:"dataset_url"`
	TimeoutSeconds int        `json:"timeout_seconds"`
	UserAgent      string     `json:"user_agent"`
	Port           int        `json:"port"`
	Wiki           WikiConfig `json:"wiki"`
}

func Default() Config {
	return Config{
		DatasetUrl:     spacexapi.DefaultLaunchesUrl,
		TimeoutSeconds: 30,
		UserAgent:      "launchboard",
		Port:           8000,
		Wiki: WikiConfig{
			Pages: map[string]string{
				"Falcon 1":     "https://en.wikipedia.org/wiki/Falcon_1",
				"Falcon 9":     "https://en.wikipedia.org/wiki/Falcon_9",
				"Falcon Heavy": "https://en.wikipedia.org/wiki/Falcon_Heavy",
			},
		},
	}
}

// Load reads `path` (and its .local override) over the defaults, a missing
// file leaves the defaults untouched.
func Load(path string) (Config, error) {
	return configutil.ReadConfigWithDefaults(path, Default())
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
