// Package permission groups role permissions by resource and decides whether
// a set of grants satisfies an operation's requirements.
package permission

import "fmt"

// Privilege is an action-level grant scoped to a resource.
type Privilege string

const (
	Read   Privilege = "READ"
	Write  Privilege = "WRITE"
	Delete Privilege = "DELETE"
	Admin  Privilege = "ADMIN"
)

// Known resources in the global catalog.
const (
	ResourceUser    = "user"
	ResourceEmail   = "email"
	ResourceAccount = "account"
)

// Valid reports whether p is one of the known privileges.
func (p Privilege) Valid() bool {
	switch p {
	case Read, Write, Delete, Admin:
		return true
	}
	return false
}

// ParsePrivilege converts s into a Privilege.
func ParsePrivilege(s string) (Privilege, error) {
	p := Privilege(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown privilege %q", s)
	}
	return p, nil
}

// Permission is a single (resource, privilege) pair.
type Permission struct {
	Resource  string    `json:"resource"`
	Privilege Privilege `json:"privilege"`
}

// Grant lists the privileges held on one resource.
type Grant struct {
	Resource   string      `json:"resource"`
	Privileges []Privilege `json:"privileges"`
}

// GroupByResource folds a flat permission list into one Grant per resource.
// Resources keep the order in which they were first seen and duplicate
// privileges are passed through.
func GroupByResource(perms []Permission) []Grant {
	grants := make([]Grant, 0)
	index := make(map[string]int)

	for _, p := range perms {
		i, ok := index[p.Resource]
		if !ok {
			i = len(grants)
			index[p.Resource] = i
			grants = append(grants, Grant{Resource: p.Resource})
		}
		grants[i].Privileges = append(grants[i].Privileges, p.Privilege)
	}

	return grants
}

// IsAuthorized reports whether every required pair is present in granted.
// An empty requirement list is always satisfied.
func IsAuthorized(granted []Grant, required []Permission) bool {
	for _, req := range required {
		if !holds(granted, req) {
			return false
		}
	}
	return true
}

func holds(granted []Grant, req Permission) bool {
	for _, g := range granted {
		if g.Resource != req.Resource {
			continue
		}
		for _, p := range g.Privileges {
			if p == req.Privilege {
				return true
			}
		}
	}
	return false
}
