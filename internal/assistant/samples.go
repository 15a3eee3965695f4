package assistant

// Canned sample payloads returned when the upstream Graph call fails and
// fallback is enabled. Shapes mirror the corresponding Graph list responses.

var sampleUsers = []map[string]any{
	{"id": "c4f1d2a0-0001-4a7e-9f10-000000000001", "displayName": "Megan Bowen", "mail": "megan.bowen@contoso.com", "jobTitle": "Marketing Manager"},
	{"id": "c4f1d2a0-0002-4a7e-9f10-000000000002", "displayName": "Alex Wilber", "mail": "alex.wilber@contoso.com", "jobTitle": "Marketing Assistant"},
	{"id": "c4f1d2a0-0003-4a7e-9f10-000000000003", "displayName": "Adele Vance", "mail": "adele.vance@contoso.com", "jobTitle": "Product Marketing Manager"},
}

var sampleGroups = []map[string]any{
	{"id": "a1b2c3d4-1001-4a7e-9f10-000000000001", "displayName": "Marketing", "mail": "marketing@contoso.com", "groupTypes": []string{"Unified"}},
	{"id": "a1b2c3d4-1002-4a7e-9f10-000000000002", "displayName": "Engineering", "mail": "engineering@contoso.com", "groupTypes": []string{"Unified"}},
}

var sampleSites = []map[string]any{
	{"id": "contoso.sharepoint.com,site-0001", "displayName": "Communication site", "webUrl": "https://contoso.sharepoint.com"},
}

var sampleOrg = []map[string]any{
	{"id": "7f316bea-0001-4a7e-9f10-000000000001", "displayName": "Contoso", "verifiedDomains": []string{"contoso.com"}},
}

// sampleFor returns the canned payload for intent, or nil when no sample is
// defined.
func sampleFor(intent Intent) any {
	switch intent {
	case IntentUsers:
		return map[string]any{"value": sampleUsers}
	case IntentGroups:
		return map[string]any{"value": sampleGroups}
	case IntentSites:
		return map[string]any{"value": sampleSites}
	case IntentOrg:
		return map[string]any{"value": sampleOrg}
	default:
		return nil
	}
}
