package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string // alias of the VECTOR attribute, "vector" when empty
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit. Distance is __vector_score as reported by the engine
// (smaller is closer); converting it into a similarity depends on the index metric.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
