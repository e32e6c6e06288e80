package flatten

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func decode(t testing.TB, raw string) any {
	var out any
	err := json.Unmarshal([]byte(raw), &out)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestFlatten(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect Row
	}{
		{
			name:  "nested mappings",
			input: `{"a": {"b": {"c": 1}}, "d": "x"}`,
			expect: Row{
				"a.b.c": 1.0,
				"d":     "x",
			},
		},
		{
			name:  "sibling objects collide, last one wins",
			input: `[{"reused": false, "core_serial": "B1049"}, {"reused": true}]`,
			expect: Row{
				"reused":      true,
				"core_serial": "B1049",
			},
		},
		{
			name:  "sequence under a key keeps the key prefix",
			input: `{"cores": [{"flight": 1}, {"flight": 2}], "ids": [10, 20]}`,
			expect: Row{
				"cores.flight": 2.0,
				"ids":          20.0,
			},
		},
		{
			name:   "null is a leaf",
			input:  `{"land_success": null}`,
			expect: Row{"land_success": nil},
		},
		{
			name:   "empty containers produce nothing",
			input:  `{"cores": [], "fairings": {}}`,
			expect: Row{},
		},
		{
			name:   "empty top level sequence",
			input:  `[]`,
			expect: Row{},
		},
		{
			name:   "top level scalar",
			input:  `5`,
			expect: Row{"": 5.0},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got := Flatten(decode(t, test.input))
			if diff := cmp.Diff(test.expect, got); diff != "" {
				t.Fatalf("unexpected flatten result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlattenKeysAreLeafPaths(t *testing.T) {
	input := decode(t, `{
		"rocket": {
			"rocket_name": "Falcon 9",
			"first_stage": {"cores": [{"core_serial": "B1046", "gridfins": true}]},
			"second_stage": {"block": 5, "payloads": [{"orbit": "GTO", "orbit_params": {"regime": "geosynchronous"}}]}
		}
	}`)

	require.Equal(t, []string{
		"rocket.first_stage.cores.core_serial",
		"rocket.first_stage.cores.gridfins",
		"rocket.rocket_name",
		"rocket.second_stage.block",
		"rocket.second_stage.payloads.orbit",
		"rocket.second_stage.payloads.orbit_params.regime",
	}, Keys(Flatten(input)))
}

func TestNormalize(t *testing.T) {
	record := decode(t, `{
		"flight_number": 1,
		"rocket": {"rocket_name": "Falcon 1", "first_stage": {"cores": [{"reused": false}]}},
		"links": {},
		"ships": []
	}`).(map[string]any)

	got := Normalize(record)
	expect := Row{
		"flight_number":            1.0,
		"rocket.rocket_name":       "Falcon 1",
		"rocket.first_stage.cores": []any{map[string]any{"reused": false}},
		"ships":                    []any{},
	}
	if diff := cmp.Diff(expect, got); diff != "" {
		t.Fatalf("unexpected normalize result (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	record := decode(t, `{"rocket": {"first_stage": {"cores": []}, "rocket_name": "Falcon 9"}}`)

	value, ok := Lookup(record, "rocket.rocket_name")
	require.True(t, ok)
	require.Equal(t, "Falcon 9", value)

	value, ok = Lookup(record, "rocket.first_stage.cores")
	require.True(t, ok)
	require.Equal(t, []any{}, value)

	_, ok = Lookup(record, "rocket.second_stage.payloads")
	require.False(t, ok)
	_, ok = Lookup(record, "rocket.rocket_name.x")
	require.False(t, ok)
}
