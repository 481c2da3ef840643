// Package policy is the access decision core: given a subject, its role, the
// resource being touched and the requested operation, it answers whether the
// operation may proceed and which task fields the subject may write. It is a
// pure package with no knowledge of HTTP or storage; services consult it at
// their boundary regardless of what the caller's payload looks like.
package policy

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Profile selects one of the two historical ownership models: tasks scoped to
// their creator (personal lists, task-by-id reads) or tasks scoped to a
// project board where visibility follows role and assignment.
type Profile string

const (
	ProfileCreatorScoped Profile = "creator-scoped"
	ProfileProjectScoped Profile = "project-scoped"
)

type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type ResourceKind string

const (
	KindTask    ResourceKind = "task"
	KindProject ResourceKind = "project"
)

// Subject is the authenticated identity making the request, resolved once at
// the boundary and passed explicitly through the call chain.
type Subject struct {
	UserID string
	Role   Role
}

// Resource carries the ownership facts a decision needs. For projects only
// OwnerID is meaningful.
type Resource struct {
	OwnerID    string
	AssigneeID string
}

// Task field names as they appear in update payloads.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldTags        = "tags"
	FieldDueDate     = "dueDate"
	FieldAssignedTo  = "assignedTo"
)

var allTaskFields = []string{
	FieldTitle, FieldDescription, FieldStatus, FieldPriority, FieldTags, FieldDueDate, FieldAssignedTo,
}

// Decision is the outcome of Decide. WritableFields is only populated for
// task updates; disallowed fields present in a payload are dropped by the
// store layer, not rejected.
type Decision struct {
	Allow          bool
	WritableFields map[string]bool
}

func (d Decision) CanWrite(field string) bool {
	return d.Allow && d.WritableFields[field]
}

func allowAll() Decision {
	m := make(map[string]bool, len(allTaskFields))
	for _, f := range allTaskFields {
		m[f] = true
	}
	return Decision{Allow: true, WritableFields: m}
}

func allowFields(fields ...string) Decision {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return Decision{Allow: true, WritableFields: m}
}

func deny() Decision {
	return Decision{}
}

// Decide gates a single operation. A deny on read/update/delete is surfaced
// to callers as a not-found, never as a forbidden.
func Decide(profile Profile, sub Subject, kind ResourceKind, op Operation, res Resource) Decision {
	switch kind {
	case KindProject:
		return decideProject(sub, op)
	case KindTask:
		return decideTask(profile, sub, op, res)
	}
	return deny()
}

func decideProject(sub Subject, op Operation) Decision {
	switch op {
	case OpList, OpRead:
		return Decision{Allow: true}
	case OpCreate, OpUpdate, OpDelete:
		if sub.Role == RoleAdmin {
			return allowAll()
		}
		return deny()
	}
	return deny()
}

func decideTask(profile Profile, sub Subject, op Operation, res Resource) Decision {
	switch op {
	case OpList, OpCreate:
		// Any authenticated subject; list scoping and assignee resolution
		// are handled by ListScope and the create path respectively.
		return Decision{Allow: true}

	case OpRead:
		if canSeeTask(profile, sub, res) {
			return Decision{Allow: true}
		}
		return deny()

	case OpUpdate:
		if sub.Role == RoleAdmin {
			return allowAll()
		}
		if res.OwnerID == sub.UserID {
			// Creators edit their tasks freely but cannot hand them to
			// someone else; only admins assign across the team.
			return allowFields(FieldTitle, FieldDescription, FieldStatus, FieldPriority, FieldTags, FieldDueDate)
		}
		if profile == ProfileProjectScoped && res.AssigneeID == sub.UserID {
			// Members touch their assigned tasks through the board: only the
			// status classification is theirs to change.
			return allowFields(FieldStatus)
		}
		return deny()

	case OpDelete:
		if sub.Role == RoleAdmin || res.OwnerID == sub.UserID {
			return Decision{Allow: true}
		}
		return deny()
	}
	return deny()
}

func canSeeTask(profile Profile, sub Subject, res Resource) bool {
	if profile == ProfileProjectScoped {
		return sub.Role == RoleAdmin || res.AssigneeID == sub.UserID
	}
	return res.OwnerID == sub.UserID
}

// ListScope narrows a task listing for the subject. Empty fields mean no
// constraint; absence of a filter is "no constraint", not "match default".
type ListScope struct {
	CreatedBy  string
	AssignedTo string
}

// TaskListScope returns the server-side visibility filter applied on top of
// whatever query filters the caller supplied. Admins see everything within
// the query scope.
func TaskListScope(profile Profile, sub Subject) ListScope {
	if sub.Role == RoleAdmin {
		return ListScope{}
	}
	if profile == ProfileProjectScoped {
		return ListScope{AssignedTo: sub.UserID}
	}
	return ListScope{CreatedBy: sub.UserID}
}

// ResolveAssignee applies the creation rule: an explicit assignee is honored
// only when the creator is an admin; everyone else self-assigns. The second
// return reports whether the explicit assignee still has to be resolved
// against the user directory.
func ResolveAssignee(sub Subject, requested string) (assignee string, needsLookup bool) {
	if sub.Role == RoleAdmin && requested != "" {
		return requested, true
	}
	return sub.UserID, false
}
