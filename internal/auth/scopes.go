package auth

// Scopes granted to session tokens at login.
const (
	// ScopeCatalogWrite allows mutation of the shared default exercise catalog.
	ScopeCatalogWrite = "catalog:write"
)
