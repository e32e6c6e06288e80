package testutil

import (
	"fmt"
	"math/rand"
)

var (
	rocketNames  = []string{"Falcon 1", "Falcon 9", "Falcon Heavy"}
	landingTypes = []string{"ASDS", "RTLS", "Ocean"}
	orbits       = []string{"LEO", "ISS", "PO", "GTO", "SSO", "VLEO", "ES-L1", "HCO", "MEO"}
)

// successSwitch picks true, false or a scheduled (null) launch.
var successSwitch = RandomSwitch(8, 1, 1)

// coreCountSwitch picks 0, 1 or 3 cores.
var coreCountSwitch = RandomSwitch(1, 6, 1)

// RandomLaunches generates `n` launch records shaped like the public launches
// feed after JSON decoding (numbers are float64, nulls are nil).
func RandomLaunches(rndm *rand.Rand, n int) []map[string]any {
	launches := make([]map[string]any, n)
	for i := range launches {
		var success any
		switch successSwitch(rndm) {
		case 0:
			success = true
		case 1:
			success = false
		}

		coreCount := []int{0, 1, 3}[coreCountSwitch(rndm)]
		cores := make([]any, coreCount)
		for c := range cores {
			cores[c] = map[string]any{
				"core_serial":    fmt.Sprintf("B%04d", rndm.Intn(2000)),
				"flight":         float64(1 + rndm.Intn(5)),
				"reused":         rndm.Intn(2) == 0,
				"landing_intent": true,
				"landing_type":   RandomChoice(rndm, landingTypes...),
				"land_success":   rndm.Intn(4) != 0,
			}
		}

		payloads := make([]any, 1+rndm.Intn(2))
		for p := range payloads {
			payloads[p] = map[string]any{
				"payload_id":      fmt.Sprintf("payload-%d-%d", i, p),
				"norad_id":        []any{float64(rndm.Intn(50000))},
				"customers":       []any{"NASA"},
				"orbit":           RandomChoice(rndm, orbits...),
				"payload_mass_kg": float64(100 + rndm.Intn(6000)),
				"orbit_params": map[string]any{
					"reference_system": "geocentric",
					"regime":           "low-earth",
				},
			}
		}

		launches[i] = map[string]any{
			"flight_number":  float64(i + 1),
			"mission_name":   fmt.Sprintf("%s-%d", RandomString(rndm, 6), i),
			"launch_year":    fmt.Sprint(2006 + rndm.Intn(15)),
			"launch_success": success,
			"rocket": map[string]any{
				"rocket_id":   "falcon9",
				"rocket_name": RandomChoice(rndm, rocketNames...),
				"first_stage": map[string]any{
					"cores": cores,
				},
				"second_stage": map[string]any{
					"block":    float64(5),
					"payloads": payloads,
				},
			},
			"links": map[string]any{
				"flickr_images": []any{},
			},
		}
	}
	return launches
}

// RandomString generates a random lowercase string given the pseudo random source.
func RandomString(rndm *rand.Rand, length int) string {
	str := make([]rune, length)
	for i := range str {
		str[i] = 'a' + rune(rndm.Intn(26))
	}
	return string(str)
}
