// Package matching decides whether a submitted lead duplicates one already in
// the collection.
//
// Ten identity fields vote; LastContacted and Notes never do, since they are
// expected to change on every re-contact. Equality is exact: strings are
// compared case-sensitively, numbers and booleans by value.
package matching

import "github.com/sells-group/lead-tracker/internal/model"

// MatchThreshold is the number of identity fields that must be equal for two
// records to describe the same lead.
const MatchThreshold = 5

// NotFound is returned by FindMatchingEntryIndex when no record qualifies.
const NotFound = -1

type field struct {
	name  string
	equal func(a, b *model.CompanyData) bool
}

var identityFields = []field{
	{"company", func(a, b *model.CompanyData) bool { return a.Company == b.Company }},
	{"country", func(a, b *model.CompanyData) bool { return a.Country == b.Country }},
	{"state", func(a, b *model.CompanyData) bool { return a.State == b.State }},
	{"city", func(a, b *model.CompanyData) bool { return a.City == b.City }},
	{"zipcode", func(a, b *model.CompanyData) bool { return a.Zipcode == b.Zipcode }},
	{"employees", func(a, b *model.CompanyData) bool { return a.Employees == b.Employees }},
	{"revenue", func(a, b *model.CompanyData) bool { return a.Revenue == b.Revenue }},
	{"website", func(a, b *model.CompanyData) bool { return a.Website == b.Website }},
	{"sales_rep", func(a, b *model.CompanyData) bool { return a.SalesRep == b.SalesRep }},
	{"purchased", func(a, b *model.CompanyData) bool { return a.Purchased == b.Purchased }},
}

// CountMatchingFields returns how many identity fields are equal between a
// and b. The result is in [0, 10].
func CountMatchingFields(a, b model.CompanyData) int {
	n := 0
	for _, f := range identityFields {
		if f.equal(&a, &b) {
			n++
		}
	}
	return n
}

// MatchedFields returns the names of the identity fields equal between a and
// b. Used for logging merge decisions.
func MatchedFields(a, b model.CompanyData) []string {
	var names []string
	for _, f := range identityFields {
		if f.equal(&a, &b) {
			names = append(names, f.name)
		}
	}
	return names
}

// FindMatchingEntryIndex returns the index of the first record in existing
// that shares at least MatchThreshold identity fields with candidate, or
// NotFound. The scan stops at the first qualifying record even when a later
// one would match on more fields.
func FindMatchingEntryIndex(candidate model.CompanyData, existing []model.CompanyData) int {
	for i := range existing {
		if CountMatchingFields(candidate, existing[i]) >= MatchThreshold {
			return i
		}
	}
	return NotFound
}
