// Package role defines choreography participants and the active role set
// consulted by the expansion and analysis passes.
//
// A role is an opaque interned name; two roles are the same role exactly
// when their names are equal. Whether a name denotes a role at all is not
// a property of the syntax tree: it is a membership test against a
// caller-supplied Set, evaluated independently at every node.
package role

import (
	"fmt"
	"sort"
	"strings"
)

// Role names a choreography participant. The zero value means "no role"
// and is used wherever an owner has not been established.
type Role string

// None is the absent role.
const None Role = ""

// IsNone reports whether r is the absent role.
func (r Role) IsNone() bool { return r == None }

// String returns the role's name, or "-" for the absent role.
func (r Role) String() string {
	if r == None {
		return "-"
	}
	return string(r)
}

// Valid reports whether name is usable as a role name: a nonempty symbol
// with no dot (dots separate a role from the identifier it qualifies) and
// none of the reader's structural characters.
func Valid(name string) bool {
	if name == "" {
		return false
	}
	if c := name[0]; c >= '0' && c <= '9' {
		return false
	}
	return !strings.ContainsAny(name, ".,()[]\"; \t\r\n")
}

// Set is the active role set for one expansion or analysis call. The
// passes only read it; reusing one Set across concurrent calls is safe.
type Set map[Role]struct{}

// NewSet builds a Set containing the given roles.
func NewSet(roles ...Role) Set {
	s := make(Set, len(roles))
	for _, r := range roles {
		s.Add(r)
	}
	return s
}

// ParseSet parses a comma-separated list of role names, such as the
// argument of a -roles flag or a roles directive. Empty segments are
// skipped; a segment that is not a valid role name is an error.
func ParseSet(list string) (Set, error) {
	s := make(Set)
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !Valid(part) {
			return nil, fmt.Errorf("invalid role name %q", part)
		}
		s.Add(Role(part))
	}
	return s, nil
}

// Add inserts r into the set. The absent role is never a member.
func (s Set) Add(r Role) {
	if r == None {
		return
	}
	s[r] = struct{}{}
}

// Has reports whether r is a member.
func (s Set) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Names returns the member names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for r := range s {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return names
}

// String renders the set as a sorted, bracketed list: [Ana Bob].
func (s Set) String() string {
	return "[" + strings.Join(s.Names(), " ") + "]"
}
