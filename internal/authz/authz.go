// Package authz holds the access-control decisions shared by all services:
// the resolved caller identity, the static role gate, and the per-instance
// ownership/membership evaluator. Services load an entity, describe its
// relationships as a Resource, and ask Allowed with the named Rule for the
// action; no route performs its own id comparisons.
package authz

import (
	"strings"

	"teamspace/internal/domain"
)

// Identity is the verified caller attached to a request after token
// verification and user lookup. ID is already in canonical form.
type Identity struct {
	ID    string
	Email string
	Role  domain.Role
}

// NewIdentity builds an Identity from a user record, normalizing the id once
// so every later comparison is canonical-to-canonical.
func NewIdentity(u *domain.User) Identity {
	return Identity{
		ID:    NormalizeID(u.ID),
		Email: strings.ToLower(strings.TrimSpace(u.Email)),
		Role:  u.Role,
	}
}

// NormalizeID returns the canonical comparable form of an identifier. Raw
// handles and their string forms must both pass through here before any
// equality check; comparing unnormalized ids is how access checks silently
// fail open or closed.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// RoleAllowed reports whether role is in the action's allowed-role set.
func RoleAllowed(role domain.Role, allowed ...domain.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Rule names the relationships between a caller and a resource that grant an
// action. The zero value denies everything. AnyAuthenticated is a recognized
// policy in its own right (e.g. event RSVP), not an absent check.
type Rule struct {
	Owner            bool
	TeamMember       bool
	Assignee         bool
	Public           bool
	AnyAuthenticated bool
}

// The per-action rules. View/mutate asymmetry is deliberate: team membership
// grants visibility but never mutation.
var (
	ProjectView   = Rule{Owner: true, TeamMember: true}
	ProjectMutate = Rule{Owner: true}
	TaskView      = Rule{Owner: true, TeamMember: true}
	TaskSetStatus = Rule{Owner: true, TeamMember: true, Assignee: true}
	TaskMutate    = Rule{Owner: true}
	EventView     = Rule{Owner: true, Public: true}
	EventMutate   = Rule{Owner: true}
	EventRSVP     = Rule{AnyAuthenticated: true}
)

// Resource describes a loaded entity's relationships for evaluation. For
// tasks, OwnerID and TeamMemberIDs come from the parent project and
// AssigneeIDs from the task itself.
type Resource struct {
	OwnerID       string
	TeamMemberIDs []string
	AssigneeIDs   []string
	Public        bool
}

// ProjectResource builds a Resource from a project.
func ProjectResource(p *domain.Project) Resource {
	return Resource{
		OwnerID:       p.CreatedBy.ID,
		TeamMemberIDs: p.TeamMemberIDs(),
	}
}

// TaskResource builds a Resource from a task and its parent project.
func TaskResource(t *domain.Task, parent *domain.Project) Resource {
	return Resource{
		OwnerID:       parent.CreatedBy.ID,
		TeamMemberIDs: parent.TeamMemberIDs(),
		AssigneeIDs:   t.AssigneeIDs(),
	}
}

// EventResource builds a Resource from an event.
func EventResource(e *domain.Event) Resource {
	return Resource{
		OwnerID: e.CreatedBy,
		Public:  e.IsPublic,
	}
}

// Allowed reports whether the identity holds any relationship to the resource
// that the rule grants. Both sides of every id comparison are normalized.
func Allowed(id Identity, res Resource, rule Rule) bool {
	if rule.AnyAuthenticated {
		return true
	}
	if rule.Public && res.Public {
		return true
	}
	callerID := NormalizeID(id.ID)
	if rule.Owner && callerID == NormalizeID(res.OwnerID) {
		return true
	}
	if rule.TeamMember && containsID(res.TeamMemberIDs, callerID) {
		return true
	}
	if rule.Assignee && containsID(res.AssigneeIDs, callerID) {
		return true
	}
	return false
}

func containsID(ids []string, normalized string) bool {
	for _, id := range ids {
		if NormalizeID(id) == normalized {
			return true
		}
	}
	return false
}
