// Package admin declares how entities are presented in the back-office
// UI and provides the small engine that interprets those declarations.
package admin

// Fieldset groups fields on the detail/edit form. The label may be empty
// for unlabeled groups.
type Fieldset struct {
	Label  string   `json:"label"`
	Fields []string `json:"fields"`
}

// AddFieldset describes a group on the creation form. Classes carry
// layout hints for the rendering client.
type AddFieldset struct {
	Label   string   `json:"label"`
	Classes []string `json:"classes"`
	Fields  []string `json:"fields"`
}

// ModelAdmin is the full presentation declaration for one entity: how it
// is listed, filtered, searched, ordered and edited. It is pure data; all
// behavior lives in the engine that consumes it.
type ModelAdmin struct {
	ListDisplay    []string
	ListFilter     []string
	SearchFields   []string
	Ordering       []string
	Fieldsets      []Fieldset
	AddFieldsets   []AddFieldset
	ReadonlyFields []string
}

// AccountAdmin returns the presentation declaration for the account
// entity.
func AccountAdmin() ModelAdmin {
	return ModelAdmin{
		ListDisplay:  []string{"email", "is_staff", "is_active"},
		ListFilter:   []string{"email", "groups", "is_staff", "is_active"},
		SearchFields: []string{"email"},
		Ordering:     []string{"email"},
		Fieldsets: []Fieldset{
			{Fields: []string{"email", "password"}},
			{Fields: []string{"username"}},
			{Label: "Permissions", Fields: []string{"is_active", "is_staff"}},
			{Fields: []string{"groups", "user_permissions"}},
			{Label: "Dates", Fields: []string{"last_login", "date_joined"}},
		},
		AddFieldsets: []AddFieldset{
			{
				Classes: []string{"wide"},
				Fields:  []string{"email", "password1", "password2", "is_staff", "is_active"},
			},
		},
		ReadonlyFields: []string{"date_joined", "last_login"},
	}
}

// HasReadonlyField reports whether the declaration marks the field as
// editable by the system only.
func (m ModelAdmin) HasReadonlyField(field string) bool {
	for _, f := range m.ReadonlyFields {
		if f == field {
			return true
		}
	}
	return false
}
