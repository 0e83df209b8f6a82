package core

// Default attribute options offered when a subtype has no explicit entry.
// Bearing numbers have no fallback: the operator types a custom code.
var (
	FallbackSeals    = []string{"OPEN", "Z", "ZZ", "RS", "2RS", "DDU", "VV"}
	FallbackSuffixes = []string{"C2", "C3", "C4", "P5", "P6", "TN9", "MA", "NR", "ST"}
	FallbackMakes    = []string{"SKF", "NSK", "NTN", "FAG", "KOYO", "NACHI", "Timken", "IKO"}
)

// Attributes holds the selectable options for a single subtype.
type Attributes struct {
	BearingNumbers []string `json:"bearingNumbers"`
	Seals          []string `json:"seals"`
	Suffixes       []string `json:"suffixes"`
	Makes          []string `json:"makes"`
}

// TypeDefinition is one bearing type and its ordered subtypes.
type TypeDefinition struct {
	Name     string
	Subtypes []string
}

// CategoryDefinition is one top-level category and its ordered types.
type CategoryDefinition struct {
	Name  string
	Types []TypeDefinition
}

type categoryNode struct {
	types    []string
	subtypes map[string][]string
}

// Taxonomy is an immutable category → type → subtype index.
// Lookups for unknown keys return empty slices, never errors.
type Taxonomy struct {
	categories []string
	nodes      map[string]categoryNode
	attrs      map[string]Attributes
}

// NewTaxonomy builds an index from category definitions and per-subtype
// attribute options. Inputs are copied; later changes to them have no effect.
// A category or type listed twice is merged into its first position.
func NewTaxonomy(categories []CategoryDefinition, attrs map[string]Attributes) *Taxonomy {
	t := &Taxonomy{
		nodes: make(map[string]categoryNode, len(categories)),
		attrs: make(map[string]Attributes, len(attrs)),
	}

	for _, cat := range categories {
		node, exists := t.nodes[cat.Name]
		if !exists {
			t.categories = append(t.categories, cat.Name)
			node = categoryNode{subtypes: make(map[string][]string)}
		}
		for _, typ := range cat.Types {
			if _, seen := node.subtypes[typ.Name]; !seen {
				node.types = append(node.types, typ.Name)
			}
			node.subtypes[typ.Name] = append(node.subtypes[typ.Name], typ.Subtypes...)
		}
		t.nodes[cat.Name] = node
	}

	for subtype, a := range attrs {
		t.attrs[subtype] = Attributes{
			BearingNumbers: cloneStrings(a.BearingNumbers),
			Seals:          cloneStrings(a.Seals),
			Suffixes:       cloneStrings(a.Suffixes),
			Makes:          cloneStrings(a.Makes),
		}
	}

	return t
}

// Categories returns all category names in registration order.
func (t *Taxonomy) Categories() []string {
	return cloneStrings(t.categories)
}

// TypesFor returns the type names of a category, or an empty slice.
func (t *Taxonomy) TypesFor(category string) []string {
	node, ok := t.nodes[category]
	if !ok {
		return []string{}
	}
	return cloneStrings(node.types)
}

// SubtypesFor returns the subtype names of a (category, type) pair, or an empty slice.
func (t *Taxonomy) SubtypesFor(category, typ string) []string {
	node, ok := t.nodes[category]
	if !ok {
		return []string{}
	}
	return cloneStrings(node.subtypes[typ])
}

// AttributesFor returns the options for a subtype. A subtype without an
// explicit entry gets the fallback seal, suffix and make lists.
func (t *Taxonomy) AttributesFor(subtype string) Attributes {
	a, ok := t.attrs[subtype]
	if !ok {
		return Attributes{
			BearingNumbers: []string{},
			Seals:          cloneStrings(FallbackSeals),
			Suffixes:       cloneStrings(FallbackSuffixes),
			Makes:          cloneStrings(FallbackMakes),
		}
	}
	return Attributes{
		BearingNumbers: cloneStrings(a.BearingNumbers),
		Seals:          cloneStrings(a.Seals),
		Suffixes:       cloneStrings(a.Suffixes),
		Makes:          cloneStrings(a.Makes),
	}
}

// Contains reports whether the (category, type, subtype) triple exists.
func (t *Taxonomy) Contains(category, typ, subtype string) bool {
	for _, s := range t.SubtypesFor(category, typ) {
		if s == subtype {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
