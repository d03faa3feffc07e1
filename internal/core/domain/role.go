package domain

// Role is the caller's role as supplied by the identity provider. It decides
// which properties and service providers a report may include.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// Valid reports whether the role is a known variant.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Caller identifies who is asking for a report or mutation.
type Caller struct {
	UserID string `json:"userID"`
	Role   Role   `json:"role"`
}

// ReportScope is the property/provider visibility computed for a caller
// before any aggregation query is built. A nil Properties slice means
// unrestricted (admin); an empty non-nil slice means no property access.
type ReportScope struct {
	Properties   []string `json:"properties"`
	Providers    []string `json:"providers"`
	AllProviders bool     `json:"allProviders"`
	// WorkerFilter restricts staff callers to line items where they are the
	// recorded worker. Applied inside aggregation, not as a property set.
	WorkerFilter *string `json:"workerFilter,omitempty"`
}

// Unrestricted reports whether the scope covers every property.
func (s ReportScope) Unrestricted() bool {
	return s.Properties == nil
}

// Allows reports whether a property is visible in this scope.
func (s ReportScope) Allows(propertyID string) bool {
	if s.Unrestricted() {
		return true
	}
	for _, id := range s.Properties {
		if id == propertyID {
			return true
		}
	}
	return false
}

// Restrict intersects the requested property set with the scope. An empty
// request means "everything in scope".
func (s ReportScope) Restrict(requested []string) []string {
	if len(requested) == 0 {
		return s.Properties
	}
	if s.Unrestricted() {
		return requested
	}
	allowed := make([]string, 0, len(requested))
	for _, id := range requested {
		if s.Allows(id) {
			allowed = append(allowed, id)
		}
	}
	return allowed
}
