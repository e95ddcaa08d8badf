package orchestrator

import (
	"fmt"
	"strings"
)

// Per-task reply formatters. Each delegable task kind has exactly one,
// registered in its ChatTask entry, so the set stays exhaustive and each
// formatter is independently testable.

func formatBusinessMatches(data map[string]any) string {
	businesses, _ := data["businesses"].([]any)
	if len(businesses) == 0 {
		return "I searched our directory but didn't find any businesses matching that just yet. Want to broaden the industry or location?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d matching businesses:\n", len(businesses))
	for i, raw := range businesses {
		if i >= 5 {
			fmt.Fprintf(&b, "...and %d more.\n", len(businesses)-i)
			break
		}
		biz, _ := raw.(map[string]any)
		name, _ := biz["name"].(string)
		location, _ := biz["location"].(string)
		line := "- " + name
		if location != "" {
			line += " (" + location + ")"
		}
		if score, ok := biz["match_score"].(float64); ok {
			line += fmt.Sprintf(" (%.0f%% match)", score*100)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMarketAnalysis(data map[string]any) string {
	if summary, ok := data["summary"].(string); ok && summary != "" {
		return summary
	}
	if analysis, ok := data["analysis"].(string); ok && analysis != "" {
		return analysis
	}

	var b strings.Builder
	b.WriteString("Here's what our analyst found:")
	if industry, ok := data["industry"].(string); ok && industry != "" {
		fmt.Fprintf(&b, " the %s sector", industry)
	}
	if count, ok := data["company_count"].(float64); ok {
		fmt.Fprintf(&b, " has %d companies in our directory", int(count))
	}
	b.WriteString(".")
	return b.String()
}

func formatCompanyProfile(data map[string]any) string {
	company, _ := data["company"].(map[string]any)
	if company == nil {
		return "I looked for that company but couldn't find an enriched profile for it."
	}

	name, _ := company["name"].(string)
	var b strings.Builder
	fmt.Fprintf(&b, "Here's what I know about %s:", name)
	if desc, ok := company["description"].(string); ok && desc != "" {
		b.WriteString(" ")
		b.WriteString(desc)
	}
	if location, ok := company["location"].(string); ok && location != "" {
		fmt.Fprintf(&b, " Based in %s.", location)
	}
	if industry, ok := company["industry"].(string); ok && industry != "" {
		fmt.Fprintf(&b, " Industry: %s.", industry)
	}
	return b.String()
}
