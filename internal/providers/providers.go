// Package providers implements the per-service OAuth adapters for the
// supported connector services. Each adapter is a pure description of
// one provider's OAuth dialect: authorize parameters, token-request
// bodies, extra headers, and token-response normalization. All network,
// browser, and storage work is done by internal/oauth.
package providers

import (
	"fmt"
	"sort"

	"toolbridge/internal/oauth"
)

// Entry ties a provider to the default scopes its connector requests
// when none are given on the command line.
type Entry struct {
	Provider      oauth.Provider
	DefaultScopes []string
}

var registry = map[string]Entry{
	"attio":    {Attio{}, []string{"read", "write"}},
	"calendly": {Calendly{}, []string{"default"}},
	"canva": {Canva{}, []string{
		"app:read", "app:write",
		"design:content:read", "design:meta:read", "design:content:write",
		"design:permission:read", "design:permission:write",
		"folder:read", "folder:write",
		"folder:permission:read", "folder:permission:write",
		"asset:read", "asset:write",
		"comment:read", "comment:write",
		"brandtemplate:meta:read", "brandtemplate:content:read",
		"profile:read",
	}},
	"clickup": {ClickUp{}, nil}, // ClickUp does not use scopes
	"figma": {Figma{}, []string{
		"current_user:read", "file_content:read", "files:read",
		"file_comments:read", "file_comments:write",
	}},
	"hubspot": {HubSpot{}, []string{
		"crm.objects.contacts.read", "crm.objects.contacts.write",
		"crm.objects.companies.read", "crm.objects.companies.write",
		"crm.objects.deals.read", "crm.objects.deals.write",
	}},
	"intercom": {Intercom{}, []string{"read", "write"}},
	"jira": {Jira{}, []string{
		"read:jira-work", "write:jira-work", "read:jira-user",
		"offline_access", "manage:jira-project", "manage:jira-configuration",
	}},
	"linear": {Linear{}, []string{"read", "write"}},
	"monday": {Monday{}, []string{
		"me:read", "boards:read", "workspaces:read",
		"boards:write", "workspaces:write",
	}},
	"patreon": {Patreon{}, []string{
		"identity", "identity[email]", "identity.memberships",
		"campaigns", "w:campaigns.webhook", "campaigns.members",
		"campaigns.members[email]", "campaigns.members.address",
		"campaigns.posts",
	}},
	"slack": {Slack{}, []string{
		"channels:history", "channels:read", "chat:write",
		"chat:write.customize", "groups:read", "groups:write",
		"groups:history", "pins:read", "pins:write", "reactions:write",
		"files:read", "files:write", "im:read", "channels:manage",
		"users:read",
	}},
	"stripe": {Stripe{}, []string{"read_write"}},
	"typeform": {Typeform{}, []string{
		"forms:read", "responses:read", "workspaces:read",
	}},
	"webflow": {Webflow{}, []string{
		"authorized_user:read", "sites:read", "forms:read", "forms:write",
		"pages:read", "cms:read", "cms:write", "users:read", "users:write",
	}},
}

// Lookup returns the adapter entry for a service name.
func Lookup(service string) (Entry, error) {
	entry, ok := registry[service]
	if !ok {
		return Entry{}, fmt.Errorf("unknown service %q (known: %v)", service, Names())
	}
	return entry, nil
}

// Names returns all registered service names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
