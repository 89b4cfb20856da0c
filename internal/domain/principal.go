package domain

// PrincipalKind tags the two flavors of authenticated caller.
type PrincipalKind string

const (
	// PrincipalEnriched carries a live session reference and the role list
	// recorded in that session.
	PrincipalEnriched PrincipalKind = "ENRICHED"
	// PrincipalBasic carries only generic granted-authority strings taken
	// from the bearer token claims.
	PrincipalBasic PrincipalKind = "BASIC"
)

// Principal represents the authenticated caller. Exactly one of the
// kind-specific field sets is populated, selected by Kind.
type Principal struct {
	Kind  PrincipalKind
	Email string

	// Enriched fields.
	SessionID string
	Roles     []string

	// Basic fields.
	Authorities []string
}

// AvailableRoles resolves the caller's role view once, regardless of kind.
func (p *Principal) AvailableRoles() []string {
	if p.Kind == PrincipalEnriched {
		return p.Roles
	}
	return p.Authorities
}

// CurrentSessionID returns the session id carried by an enriched principal,
// or empty when the caller presented a basic principal.
func (p *Principal) CurrentSessionID() string {
	if p.Kind == PrincipalEnriched {
		return p.SessionID
	}
	return ""
}
