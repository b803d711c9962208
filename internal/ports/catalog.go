package ports

// Catalog enumerates the template library. It is read-only: the recommendation
// engine never writes to it.
//
// A catalog that does not exist yet is an empty catalog (nil, nil). Entries
// that could not be read or decoded are still returned, with Err set, so the
// caller can record a warning and skip them.
type Catalog interface {
	Entries() ([]CatalogEntry, error)
}

// CatalogEntry is one template file in the catalog.
type CatalogEntry struct {
	ID       string          // slash path relative to the catalog root, e.g. "web/gateway.json"
	Category string          // first path segment, e.g. "web"
	Record   *TemplateRecord // nil when Err is set
	Err      error
}

// TemplateRecord is the decoded template metadata document.
type TemplateRecord struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
	Info        TemplateInfo `json:"template_info"`
}

// TemplateInfo carries the optional intended-use keywords of a template.
type TemplateInfo struct {
	TargetProjects []string `json:"target_projects"`
	Keywords       []string `json:"keywords"`
}
