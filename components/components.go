// Package components defines the plain-data entities of the simulation.
package components

import "fmt"

// Diet is fixed at creation and inherited by offspring.
type Diet uint8

const (
	Herbivore Diet = iota
	Carnivore
)

func (d Diet) String() string {
	if d == Carnivore {
		return "Carnivore"
	}
	return "Herbivore"
}

// MarshalText implements encoding.TextMarshaler.
func (d Diet) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Diet) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Herbivore":
		*d = Herbivore
	case "Carnivore":
		*d = Carnivore
	default:
		return fmt.Errorf("unknown diet %q", text)
	}
	return nil
}

// ActionMask records what a creature did during its last update.
type ActionMask uint32

const (
	ActionResting ActionMask = 1 << iota
	ActionEating
	ActionSprinting
	ActionAttacking // attempt only, no damage is dealt
	ActionDrinking
)

// FeelingMask records threshold states after a creature's last update.
type FeelingMask uint32

const (
	FeelingThirsty FeelingMask = 1 << iota
	FeelingHungry
	FeelingFatigued
	FeelingRestless
)

// Plant is a static food and water source.
type Plant struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Radius float32 `json:"radius"`
}
