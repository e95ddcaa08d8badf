package orchestrator

import (
	"fmt"
	"strings"

	"github.com/patmode91/bama-ai-nexus-sub001/internal/domain"
)

// ChatTask describes one delegable task kind: which entity slots it needs,
// how to shape them into a downstream payload, which agent serves it, the
// clarifying question used when slots are missing, and the formatter that
// turns the agent's data into reply text.
type ChatTask struct {
	Name    string
	Agent   string
	Clarify string

	// RequiredSlots is a conjunction of alternatives: every group must have
	// at least one of its slots present in the classified entities.
	RequiredSlots [][]string

	BuildPayload func(domain.Entities) map[string]any
	Format       func(map[string]any) string
}

// MissingSlots reports which requirement groups are unsatisfied by the given
// entities; empty result means the task can be delegated.
func (t ChatTask) MissingSlots(entities domain.Entities) []string {
	var missing []string
	for _, group := range t.RequiredSlots {
		satisfied := false
		for _, slot := range group {
			if entities[slot] != "" {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, strings.Join(group, " or "))
		}
	}
	return missing
}

// chatTasks is the fixed mapping of delegable task names. Tasks suggested by
// the classifier that are not listed here are never delegated.
var chatTasks = map[string]ChatTask{
	"connector_find_and_score_businesses": {
		Name:    "connector_find_and_score_businesses",
		Agent:   domain.AgentConnector,
		Clarify: "I can help you find businesses! What type of business or industry are you looking for, and in which Alabama city or region?",
		RequiredSlots: [][]string{
			{"location"},
			{"industry", "query_text_for_semantic_search"},
		},
		BuildPayload: func(e domain.Entities) map[string]any {
			return map[string]any{
				"industry":                       e["industry"],
				"location":                       e["location"],
				"query_text_for_semantic_search": e["query_text_for_semantic_search"],
			}
		},
		Format: formatBusinessMatches,
	},

	"analyst_market_analysis": {
		Name:    "analyst_market_analysis",
		Agent:   domain.AgentAnalyst,
		Clarify: "Which industry would you like a market analysis for?",
		RequiredSlots: [][]string{
			{"industry"},
		},
		BuildPayload: func(e domain.Entities) map[string]any {
			return map[string]any{
				"industry": e["industry"],
				"location": e["location"],
			}
		},
		Format: formatMarketAnalysis,
	},

	"curator_enrich_company": {
		Name:    "curator_enrich_company",
		Agent:   domain.AgentCurator,
		Clarify: "Which company should I look up? A company name or id works.",
		RequiredSlots: [][]string{
			{"company_id", "company_name"},
		},
		BuildPayload: func(e domain.Entities) map[string]any {
			return map[string]any{
				"company_id":   e["company_id"],
				"company_name": e["company_name"],
			}
		},
		Format: formatCompanyProfile,
	},
}

// LookupChatTask returns the chat task definition for a suggested task name.
func LookupChatTask(name string) (ChatTask, bool) {
	t, ok := chatTasks[name]
	return t, ok
}

// apologeticNote is appended to the classifier's reply when a delegated
// handler fails; the original reply text is preserved.
func apologeticNote(agent string) string {
	return fmt.Sprintf("\n\n(I tried to get more details from our %s agent, but that didn't work just now. Please try again in a moment.)", agent)
}
