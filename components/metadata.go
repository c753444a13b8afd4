package components

// Names lists the set bits of the mask, lowest bit first.
func (m ActionMask) Names() []string {
	return maskNames(uint32(m), []string{"resting", "eating", "sprinting", "attacking", "drinking"})
}

// Names lists the set bits of the mask, lowest bit first.
func (m FeelingMask) Names() []string {
	return maskNames(uint32(m), []string{"thirsty", "hungry", "fatigued", "restless"})
}

func maskNames(bits uint32, names []string) []string {
	var out []string
	for i, name := range names {
		if bits&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}
