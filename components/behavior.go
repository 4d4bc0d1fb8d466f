package components

import "fmt"

// Behavior is the activity a fish is currently committed to.
// The declaration order is the roulette-wheel enumeration order used by
// behavior selection and must not change.
type Behavior uint8

const (
	BehaviorCruise Behavior = iota
	BehaviorSchool
	BehaviorInspect
	BehaviorHover
	BehaviorDart
	BehaviorRest
	BehaviorAvoid
	BehaviorChase

	NumBehaviors = 8
)

var behaviorNames = [NumBehaviors]string{
	"cruise", "school", "inspect", "hover", "dart", "rest", "avoid", "chase",
}

// AllBehaviors lists every behavior in enumeration order.
func AllBehaviors() [NumBehaviors]Behavior {
	return [NumBehaviors]Behavior{
		BehaviorCruise, BehaviorSchool, BehaviorInspect, BehaviorHover,
		BehaviorDart, BehaviorRest, BehaviorAvoid, BehaviorChase,
	}
}

// Valid reports whether b is one of the eight behaviors.
func (b Behavior) Valid() bool {
	return b < NumBehaviors
}

func (b Behavior) String() string {
	if b.Valid() {
		return behaviorNames[b]
	}
	return fmt.Sprintf("Behavior(%d)", uint8(b))
}

// MarshalText implements encoding.TextMarshaler.
func (b Behavior) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid behavior %d", uint8(b))
	}
	return []byte(behaviorNames[b]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Behavior) UnmarshalText(text []byte) error {
	parsed, err := ParseBehavior(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBehavior converts a behavior name back to its value.
func ParseBehavior(name string) (Behavior, error) {
	for i, n := range behaviorNames {
		if n == name {
			return Behavior(i), nil
		}
	}
	return 0, fmt.Errorf("unknown behavior %q", name)
}
