package domain

import "fmt"

// Capability is an enumerated tag describing one skill an agent can claim.
// The set is closed: adding a skill means adding a constant here, never
// registering one at runtime.
type Capability string

const (
	CapCodeAnalysis      Capability = "code_analysis"
	CapCodeDebugging     Capability = "code_debugging"
	CapCodeRepair        Capability = "code_repair"
	CapTestGeneration    Capability = "test_generation"
	CapDocumentation     Capability = "documentation"
	CapStrategicPlanning Capability = "strategic_planning"
	CapResearch          Capability = "research"
	CapRAGProcessing     Capability = "rag_processing"
)

// AllCapabilities returns every member of the closed capability set.
func AllCapabilities() []Capability {
	return []Capability{
		CapCodeAnalysis,
		CapCodeDebugging,
		CapCodeRepair,
		CapTestGeneration,
		CapDocumentation,
		CapStrategicPlanning,
		CapResearch,
		CapRAGProcessing,
	}
}

// Valid reports whether c is a member of the closed set.
func (c Capability) Valid() bool {
	switch c {
	case CapCodeAnalysis, CapCodeDebugging, CapCodeRepair, CapTestGeneration,
		CapDocumentation, CapStrategicPlanning, CapResearch, CapRAGProcessing:
		return true
	}
	return false
}

func (c Capability) String() string { return string(c) }

// ParseCapability converts a raw string to a Capability.
// Returns ErrInvalidInput for anything outside the closed set.
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown capability %q", ErrInvalidInput, s)
	}
	return c, nil
}
