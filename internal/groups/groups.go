package groups

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrDuplicateName = errors.New("group already exists")
	ErrNotFound      = errors.New("group not found")
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidColor  = errors.New("invalid group color")
)

var validate = validator.New()

// Group is a named, colored set of canonical activity names.
type Group struct {
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	Activities []string `json:"activities"`
}

// Has reports whether activity is a member.
func (g *Group) Has(activity string) bool {
	for _, a := range g.Activities {
		if a == activity {
			return true
		}
	}
	return false
}

func (g *Group) remove(activity string) {
	out := g.Activities[:0]
	for _, a := range g.Activities {
		if a != activity {
			out = append(out, a)
		}
	}
	g.Activities = out
}

// Registry holds groups in creation order. An activity belongs to at most one group.
type Registry struct {
	Groups  []*Group `json:"groups"`
	palette []string
}

// NewRegistry returns an empty registry that colors new groups from palette.
func NewRegistry(palette []string) *Registry {
	return &Registry{palette: palette}
}

// SetPalette replaces the default color cycle.
func (r *Registry) SetPalette(p []string) { r.palette = p }

// Len returns the number of groups.
func (r *Registry) Len() int { return len(r.Groups) }

// Get returns the named group.
func (r *Registry) Get(name string) (*Group, bool) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Create adds a group. An empty color takes the next palette entry.
func (r *Registry) Create(name, color string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create group: %w", ErrInvalidName)
	}
	if _, ok := r.Get(name); ok {
		return nil, fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	color = strings.TrimSpace(color)
	if color == "" && len(r.palette) > 0 {
		color = r.palette[len(r.Groups)%len(r.palette)]
	}
	if color != "" {
		if err := validate.Var(color, "hexcolor"); err != nil {
			return nil, fmt.Errorf("%q: %w", color, ErrInvalidColor)
		}
	}
	g := &Group{Name: name, Color: color, Activities: []string{}}
	r.Groups = append(r.Groups, g)
	return g, nil
}

// Remove deletes the named group. Its members become ungrouped.
func (r *Registry) Remove(name string) error {
	for i, g := range r.Groups {
		if g.Name == name {
			r.Groups = append(r.Groups[:i], r.Groups[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, ErrNotFound)
}

// AssignResult reports what an Assign call changed.
type AssignResult struct {
	Added         []string
	AlreadyMember []string
	// Moved maps an activity to the group it was taken from.
	Moved map[string]string
}

// Assign adds activities to the named group, moving any that belong to another group.
// Nothing changes when the group is unknown or a name is blank.
func (r *Registry) Assign(groupName string, activities []string) (AssignResult, error) {
	res := AssignResult{Moved: map[string]string{}}
	target, ok := r.Get(groupName)
	if !ok {
		return res, fmt.Errorf("%q: %w", groupName, ErrNotFound)
	}
	names := make([]string, 0, len(activities))
	seen := map[string]bool{}
	for _, a := range activities {
		if strings.TrimSpace(a) == "" {
			return res, fmt.Errorf("assign to %q: empty activity: %w", groupName, ErrInvalidName)
		}
		if !seen[a] {
			seen[a] = true
			names = append(names, a)
		}
	}
	for _, a := range names {
		if target.Has(a) {
			res.AlreadyMember = append(res.AlreadyMember, a)
			continue
		}
		if from, ok := r.GroupOf(a); ok {
			from.remove(a)
			res.Moved[a] = from.Name
		}
		target.Activities = append(target.Activities, a)
		res.Added = append(res.Added, a)
	}
	return res, nil
}

// Unassign removes activities from whichever group holds them.
func (r *Registry) Unassign(activities []string) []string {
	var removed []string
	for _, a := range activities {
		if g, ok := r.GroupOf(a); ok {
			g.remove(a)
			removed = append(removed, a)
		}
	}
	return removed
}

// GroupOf returns the group currently holding activity.
func (r *Registry) GroupOf(activity string) (*Group, bool) {
	for _, g := range r.Groups {
		if g.Has(activity) {
			return g, true
		}
	}
	return nil, false
}

// Membership maps every grouped activity to its group name.
func (r *Registry) Membership() map[string]string {
	out := map[string]string{}
	for _, g := range r.Groups {
		for _, a := range g.Activities {
			out[a] = g.Name
		}
	}
	return out
}

// Available returns the activities not held by any group, sorted.
func (r *Registry) Available(activities []string) []string {
	grouped := r.Membership()
	seen := map[string]bool{}
	var out []string
	for _, a := range activities {
		if _, ok := grouped[a]; ok || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Clear removes every group.
func (r *Registry) Clear() { r.Groups = nil }
