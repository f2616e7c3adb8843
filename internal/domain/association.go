package domain

// AssociationLinks is the per-contact association document: the businesses
// and properties a contact has been linked to through the portal. Ids are
// deduplicated, insertion-ordered strings; only uniqueness is meaningful.
type AssociationLinks struct {
	Businesses []string `json:"businesses"`
	Properties []string `json:"properties"`
}

// EmptyAssociationLinks is the default returned when no document exists or
// the association store is absent. Slices are non-nil so the JSON shape is
// stable for callers.
func EmptyAssociationLinks() AssociationLinks {
	return AssociationLinks{Businesses: []string{}, Properties: []string{}}
}
