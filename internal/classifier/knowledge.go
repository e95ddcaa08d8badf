package classifier

import "strings"

// Static reference data about the Alabama tech ecosystem, injected into every
// classification prompt. This is fixed domain context, not queried live.

type regionalHub struct {
	City      string
	Strengths []string
}

var regionalHubs = []regionalHub{
	{City: "Huntsville", Strengths: []string{"aerospace", "defense", "space technology", "missile systems"}},
	{City: "Birmingham", Strengths: []string{"biotech", "fintech", "healthcare IT", "medical research"}},
	{City: "Mobile", Strengths: []string{"shipbuilding", "aviation manufacturing", "steel", "chemicals"}},
	{City: "Montgomery", Strengths: []string{"cybersecurity", "government technology", "automotive suppliers"}},
	{City: "Auburn-Opelika", Strengths: []string{"additive manufacturing", "engineering research", "agritech"}},
	{City: "Tuscaloosa", Strengths: []string{"automotive manufacturing", "materials science"}},
}

var keyIndustries = []string{
	"aerospace & defense",
	"automotive manufacturing",
	"biotechnology",
	"fintech",
	"healthcare IT",
	"cybersecurity",
	"logistics & shipbuilding",
	"agritech",
}

// domainFacts renders the fixed reference block appended to prompts.
func domainFacts() string {
	var b strings.Builder
	b.WriteString("Alabama tech ecosystem reference:\n")
	for _, hub := range regionalHubs {
		b.WriteString("- ")
		b.WriteString(hub.City)
		b.WriteString(": ")
		b.WriteString(strings.Join(hub.Strengths, ", "))
		b.WriteString("\n")
	}
	b.WriteString("Key industries: ")
	b.WriteString(strings.Join(keyIndustries, ", "))
	b.WriteString("\n")
	return b.String()
}
