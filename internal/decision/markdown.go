package decision

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders the gate verdict for one grid run as a
// Markdown checklist.
func RenderMarkdown(input DecisionInput, result *DecisionResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Decision Gate: %s\n\n", result.Decision)
	fmt.Fprintf(&sb, "Run `%s`, best pair entry %.4f / exit %.4f.\n\n",
		input.RunID, input.EntryThreshold, input.ExitThreshold)

	sb.WriteString("## GO Criteria\n\n")
	sb.WriteString("| Criterion | Required | Actual | Result |\n")
	sb.WriteString("|-----------|----------|--------|--------|\n")
	passed := 0
	for _, c := range result.GOCriteria {
		verdict := "FAIL"
		if c.Pass {
			verdict = "PASS"
			passed++
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", c.Name, c.Threshold, c.Actual, verdict)
	}
	fmt.Fprintf(&sb, "\n%d/%d passed.\n\n", passed, len(result.GOCriteria))

	sb.WriteString("## NO-GO Triggers\n\n")
	sb.WriteString("| Trigger | Fires when | Actual | Result |\n")
	sb.WriteString("|---------|------------|--------|--------|\n")
	fired := 0
	for _, c := range result.NOGOChecks {
		verdict := "clear"
		if !c.Pass {
			verdict = "TRIGGERED"
			fired++
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", c.Name, c.Threshold, c.Actual, verdict)
	}
	fmt.Fprintf(&sb, "\n%d/%d triggered.\n\n", fired, len(result.NOGOChecks))

	sb.WriteString("## Verdict\n\n")
	if result.Decision == DecisionGO {
		sb.WriteString("Every criterion passed and no trigger fired. The pair's ")
		sb.WriteString("held-out performance supports deployment.\n")
		return sb.String()
	}

	sb.WriteString("NO-GO because:\n")
	for _, c := range result.GOCriteria {
		if !c.Pass {
			fmt.Fprintf(&sb, "- %s: wanted %s, got %s\n", c.Name, c.Threshold, c.Actual)
		}
	}
	for _, c := range result.NOGOChecks {
		if !c.Pass {
			fmt.Fprintf(&sb, "- %s (%s)\n", c.Name, c.Actual)
		}
	}
	return sb.String()
}
