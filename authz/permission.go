package authz

import "strings"

// Permission is a grantable capability of the form "resource.action",
// "resource.*" (all actions on one resource) or "*" (all capabilities).
type Permission string

// Wildcards for super permissions
const (
	WildcardAll              = "*"
	PermissionAll Permission = "*"
)

// Kind distinguishes the three shapes a permission string can take.
type Kind int

const (
	// KindExact is a plain "resource.action" token. Malformed strings
	// without a separator also parse as KindExact with an empty action,
	// so they only ever match themselves verbatim.
	KindExact Kind = iota

	// KindResourceWildcard is "resource.*".
	KindResourceWildcard

	// KindGlobalWildcard is the literal "*".
	KindGlobalWildcard
)

// Parsed is the tagged form of a permission string. Matching rules operate on
// this rather than on ad hoc splits.
type Parsed struct {
	Kind     Kind
	Resource string
	Action   string
}

// Parse splits a permission into its tagged form. It never fails: anything
// that is not a recognized wildcard shape is an exact token.
func (p Permission) Parse() Parsed {
	s := string(p)
	if s == WildcardAll {
		return Parsed{Kind: KindGlobalWildcard}
	}
	idx := strings.Index(s, ".")
	if idx < 0 {
		return Parsed{Kind: KindExact, Resource: s}
	}
	resource, action := s[:idx], s[idx+1:]
	if action == WildcardAll {
		return Parsed{Kind: KindResourceWildcard, Resource: resource}
	}
	return Parsed{Kind: KindExact, Resource: resource, Action: action}
}

// Matches reports whether a set of held permissions satisfies a requested
// permission. An empty request never matches. The set satisfies the request
// if it contains the global wildcard, the request verbatim, or the resource
// wildcard for the request's resource prefix.
func Matches(held []Permission, requested Permission) bool {
	if requested == "" {
		return false
	}
	for _, p := range held {
		if p == PermissionAll || p == requested {
			return true
		}
	}
	resource := requested.Parse().Resource
	if resource == "" {
		return false
	}
	want := Permission(resource + "." + WildcardAll)
	for _, p := range held {
		if p == want {
			return true
		}
	}
	return false
}

// MatchesAll reports whether every requested permission is satisfied.
// An empty request list is vacuously true.
func MatchesAll(held []Permission, requested []Permission) bool {
	for _, r := range requested {
		if !Matches(held, r) {
			return false
		}
	}
	return true
}

// MatchesAny reports whether at least one requested permission is satisfied.
// An empty request list is vacuously true, mirroring MatchesAll.
func MatchesAny(held []Permission, requested []Permission) bool {
	if len(requested) == 0 {
		return true
	}
	for _, r := range requested {
		if Matches(held, r) {
			return true
		}
	}
	return false
}

// GroupByResource groups a permission set's action suffixes by resource
// prefix. A set holding the global wildcard collapses to {"all": ["*"]}.
// Malformed entries without a separator appear under their full text with no
// actions.
func GroupByResource(perms []Permission) map[string][]string {
	grouped := make(map[string][]string)
	for _, p := range perms {
		parsed := p.Parse()
		switch parsed.Kind {
		case KindGlobalWildcard:
			return map[string][]string{"all": {WildcardAll}}
		case KindResourceWildcard:
			grouped[parsed.Resource] = append(grouped[parsed.Resource], WildcardAll)
		default:
			if parsed.Action == "" {
				if _, ok := grouped[parsed.Resource]; !ok {
					grouped[parsed.Resource] = []string{}
				}
				continue
			}
			grouped[parsed.Resource] = append(grouped[parsed.Resource], parsed.Action)
		}
	}
	return grouped
}

// FromStrings converts raw store values into permissions.
func FromStrings(values []string) []Permission {
	perms := make([]Permission, len(values))
	for i, v := range values {
		perms[i] = Permission(v)
	}
	return perms
}

// ToStrings converts permissions back into raw store values.
func ToStrings(perms []Permission) []string {
	values := make([]string, len(perms))
	for i, p := range perms {
		values[i] = string(p)
	}
	return values
}
