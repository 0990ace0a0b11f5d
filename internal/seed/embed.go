package seed

import _ "embed"

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultCatalog is the demo storefront shipped with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}
