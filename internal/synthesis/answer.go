package synthesis

// StructuredAnswer is the fixed shape every answer takes: a few summary
// insights plus facts that each carry a [Source: doc_id] citation marker.
type StructuredAnswer struct {
	Summary []string `json:"summary"`
	Facts   []string `json:"facts"`
}

// Valid reports whether the answer satisfies the output contract: both
// sequences present and non-empty.
func (a StructuredAnswer) Valid() bool {
	return len(a.Summary) > 0 && len(a.Facts) > 0
}
