package domain

import "time"

// EntityKind identifies one of the flat catalog collections.
type EntityKind string

const (
	EntityKindAccount    EntityKind = "account"
	EntityKindCompany    EntityKind = "company"
	EntityKindIndividual EntityKind = "individual"
	EntityKindContractor EntityKind = "contractor"
	EntityKindProject    EntityKind = "project"
	EntityKindCategory   EntityKind = "category"
)

// EntityKinds lists all catalog kinds in a stable order.
var EntityKinds = []EntityKind{
	EntityKindAccount,
	EntityKindCompany,
	EntityKindIndividual,
	EntityKindContractor,
	EntityKindProject,
	EntityKindCategory,
}

// Entity is a catalog record. The catalog holds no logic beyond
// find-or-create-by-name; everything numeric is derived from events.
type Entity struct {
	ID        string
	UserID    string
	Kind      EntityKind
	Name      string
	Retail    bool
	CreatedAt time.Time
}

// ValidKind reports whether k is a known catalog kind.
func ValidKind(k EntityKind) bool {
	switch k {
	case EntityKindAccount, EntityKindCompany, EntityKindIndividual,
		EntityKindContractor, EntityKindProject, EntityKindCategory:
		return true
	}
	return false
}
