package user

// Summary is a row on the system-admin users page
type Summary struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
	Active   bool     `json:"active"`
}

// IntegrationSetting is a key/value pair managed by system admins
type IntegrationSetting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}
