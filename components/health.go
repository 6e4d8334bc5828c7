package components

import "fmt"

// Health is the epidemiological state of a ball.
type Health uint8

const (
	Healthy   Health = iota // Susceptible, can be infected on contact
	Infected                // Contagious until the infection timer runs out
	Recovered               // Immune; never transmits or receives
)

// NumHealthStates is the number of Health values.
const NumHealthStates = 3

// AllHealth lists every health state in declaration order.
var AllHealth = [NumHealthStates]Health{Healthy, Infected, Recovered}

var healthNames = [NumHealthStates]string{"healthy", "infected", "recovered"}

// String returns the lowercase state name.
func (h Health) String() string {
	if int(h) < len(healthNames) {
		return healthNames[h]
	}
	return fmt.Sprintf("health(%d)", uint8(h))
}

// Valid reports whether h is one of the known states.
func (h Health) Valid() bool {
	return int(h) < NumHealthStates
}

// ParseHealth converts a state name from config into a Health.
func ParseHealth(s string) (Health, error) {
	for i, name := range healthNames {
		if s == name {
			return Health(i), nil
		}
	}
	return Healthy, fmt.Errorf("unknown health state %q", s)
}
