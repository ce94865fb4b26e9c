package model

// Variant selects how a dataset file's items are mapped onto records
type Variant string

const (
	// VariantComposite files carry the publication reference as one
	// "number - ص page - date" string and an amending legislation key.
	VariantComposite Variant = "composite"
	// VariantSplit files carry the publication parts as separate keys
	// and no amending legislation.
	VariantSplit Variant = "split"
)

// Dataset describes one selectable legislative-record collection
type Dataset struct {
	Label   string  `yaml:"label"`
	Path    string  `yaml:"path"`
	Variant Variant `yaml:"variant"`
}
