package entity

// NavItem is a static navigation entry. The catalog is configuration,
// never mutated at runtime.
type NavItem struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Icon       string   `json:"icon"`
	Path       string   `json:"path"`
	Permission string   `json:"permission,omitempty"`
	Roles      []string `json:"roles,omitempty"`
}
