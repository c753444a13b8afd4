package neural

// BehaviorOutputs holds the decoded steering and action signals.
// Every field is tanh of the matching raw network output.
type BehaviorOutputs struct {
	SteerX     float32
	SteerY     float32
	AccelScale float32 // used as |AccelScale|
	Eat        float32
	Rest       float32
	Boost      float32
}

// DecodeOutputs maps raw network outputs to behavior signals.
// Missing outputs decode as 0; extra outputs are ignored.
func DecodeOutputs(raw []float32) BehaviorOutputs {
	at := func(i int) float32 {
		if i < len(raw) {
			return tanh(raw[i])
		}
		return 0
	}
	return BehaviorOutputs{
		SteerX:     at(0),
		SteerY:     at(1),
		AccelScale: at(2),
		Eat:        at(3),
		Rest:       at(4),
		Boost:      at(5),
	}
}

// Resting reports whether the rest gate is open.
func (o BehaviorOutputs) Resting() bool { return o.Rest > 0.5 }

// Eating reports whether the eat gate is open.
func (o BehaviorOutputs) Eating() bool { return o.Eat > 0.5 }

// Boosting reports whether the sprint gate is open.
func (o BehaviorOutputs) Boosting() bool { return o.Boost > 0.5 }
