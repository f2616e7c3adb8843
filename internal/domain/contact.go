package domain

// Contact is the portal's view of a registry contact. The id is assigned by
// the registry and is the only identity this subsystem trusts; every other
// field is advisory and may be overwritten by later resolutions.
type Contact struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ContactType string `json:"contact_type,omitempty"`
}

// BusinessView is the disclosure-safe projection of a registry business.
// ContactIDs is always filtered by the caller to ids the requester has
// already proven a claim against.
type BusinessView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	Address    string   `json:"address,omitempty"`
	URL        string   `json:"url,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	ContactIDs []string `json:"contact_ids"`
}

// PropertyView is the disclosure-safe projection of a registry property.
type PropertyView struct {
	ID         string   `json:"id"`
	Address    string   `json:"address,omitempty"`
	BBL        string   `json:"bbl,omitempty"`
	ContactIDs []string `json:"contact_ids"`
}
