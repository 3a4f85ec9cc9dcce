// Package chat implements the persona assistant: static persona presets, the
// append-only per-user transcript, and the relay that forwards prompts to a
// generative-language provider with a deterministic mock fallback.
package chat

// Persona is a named system-instruction preset steering the tone of
// generated replies. The set is static configuration, not user data.
type Persona struct {
	Name        string
	Instruction string
}

var personas = []Persona{
	{
		Name: "Current You",
		Instruction: "You are the user's financial self, speaking in second person. " +
			"Describe their spending habits as they are today, without judgment. " +
			"Keep answers to three short lines at most.",
	},
	{
		Name: "Good Twin",
		Instruction: "You are the user's financially disciplined twin. " +
			"Encourage saving, warn gently about risky spending, and celebrate good habits. " +
			"Keep answers to three short lines at most.",
	},
	{
		Name: "Evil Twin",
		Instruction: "You are the user's impulsive twin who loves spending. " +
			"Playfully tempt them toward treats and splurges, but never toward genuine harm. " +
			"Keep answers to three short lines at most.",
	},
}

// Personas returns the fixed persona set in display order.
func Personas() []Persona {
	out := make([]Persona, len(personas))
	copy(out, personas)
	return out
}

// LookupPersona finds a persona by name.
func LookupPersona(name string) (Persona, bool) {
	for _, p := range personas {
		if p.Name == name {
			return p, true
		}
	}
	return Persona{}, false
}

// DefaultPersona is used when a request names no persona.
func DefaultPersona() Persona {
	return personas[0]
}
