// Package assistant adapts natural-language-ish chat messages into Graph
// request descriptors using fixed keyword matching. There is no NLP here;
// the extraction is a lookup over a short rule list.
package assistant

import (
	"strings"

	"github.com/mkoepke/msgraph-mcp/internal/graph"
)

// Intent names a recognized request category.
type Intent string

const (
	IntentUsers  Intent = "users"
	IntentGroups Intent = "groups"
	IntentSites  Intent = "sites"
	IntentOrg    Intent = "organization"
)

// intentRule pairs trigger keywords with the descriptor they expand to.
// Rules are evaluated in order; the first match wins.
type intentRule struct {
	intent   Intent
	keywords []string
	request  graph.Request
}

var rules = []intentRule{
	{
		intent:   IntentGroups,
		keywords: []string{"group", "team", "distribution list"},
		request: graph.Request{
			Endpoint:    "/groups",
			QueryParams: map[string]any{"$select": "id,displayName,mail,groupTypes", "$top": 25},
			AllData:     true,
		},
	},
	{
		intent:   IntentUsers,
		keywords: []string{"user", "people", "person", "employee", "member"},
		request: graph.Request{
			Endpoint:    "/users",
			QueryParams: map[string]any{"$select": "id,displayName,mail,jobTitle", "$top": 25},
			AllData:     true,
		},
	},
	{
		intent:   IntentSites,
		keywords: []string{"site", "sharepoint"},
		request: graph.Request{
			Endpoint:    "/sites",
			QueryParams: map[string]any{"search": "*"},
		},
	},
	{
		intent:   IntentOrg,
		keywords: []string{"organization", "organisation", "company", "tenant"},
		request: graph.Request{
			Endpoint: "/organization",
		},
	},
}

// ExtractIntent matches message against the fixed keyword rules and returns
// the recognized intent with its request descriptor. ok is false when no
// rule matches.
func ExtractIntent(message string) (graph.Request, Intent, bool) {
	lowered := strings.ToLower(message)

	for _, rule := range rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.request, rule.intent, true
			}
		}
	}

	return graph.Request{}, "", false
}
