package svg

import (
	"strings"

	"github.com/matzehuels/famtree/pkg/family"
)

// All is the filter value meaning "no restriction".
const All = "All"

// Filter restricts which people are drawn.
type Filter struct {
	Query   string // case-insensitive substring of name, tag or origin fields
	Country string // exact origin country; "" or All matches everyone
	City    string // exact origin city; "" or All matches everyone
}

// FilterFromUI builds a filter from the viewer settings stored with a
// project.
func FilterFromUI(ui family.UISettings) Filter {
	return Filter{Country: ui.FilterCountry, City: ui.FilterCity}
}

// Active reports whether f hides anyone at all.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || restricts(f.Country) || restricts(f.City)
}

// Match reports whether p passes every part of the filter.
func (f Filter) Match(p *family.Person) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		fields := []string{p.Name, p.Tag, p.OriginCountry, p.OriginCity, p.OriginArea, p.OriginFamilyBranch}
		found := false
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if restricts(f.Country) && p.OriginCountry != f.Country {
		return false
	}
	if restricts(f.City) && p.OriginCity != f.City {
		return false
	}
	return true
}

// Apply returns the people that match, in their original order.
func (f Filter) Apply(people []*family.Person) []*family.Person {
	if !f.Active() {
		return people
	}
	out := make([]*family.Person, 0, len(people))
	for _, p := range people {
		if p != nil && f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func restricts(v string) bool { return v != "" && v != All }
