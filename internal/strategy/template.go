package strategy

import (
	"fmt"
	"strings"
)

const (
	exploitPreamble = `// Exploitation walkthrough (simulation output, illustrative only)
// Nothing below touches real memory; it documents how the generated
// plan would be carried out against the modeled heap.`

	exploitClosing = `// End of walkthrough. Regenerate after mutating the heap: plans are
// derived from live state and are never cached.`
)

// GenerateExploitTemplate renders the full walkthrough document for a bug:
// a fixed preamble, each phase's description and technique artifact in
// order, and a fixed closing line. This is pure formatting over
// GenerateStrategyForBug; it adds no decision logic.
func (g *Generator) GenerateExploitTemplate(bugID int64) (string, error) {
	plan, err := g.GenerateStrategyForBug(bugID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(exploitPreamble)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "// Strategy: %s (%s)\n", plan.Name, plan.Approach)
	fmt.Fprintf(&sb, "// %s\n", plan.Description)

	for i, phase := range plan.Phases {
		fmt.Fprintf(&sb, "\n// Phase %d [%s]: %s\n", i+1, phase.Kind, phase.Description)
		sb.WriteString(phase.Technique)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(exploitClosing)
	sb.WriteString("\n")

	return sb.String(), nil
}
