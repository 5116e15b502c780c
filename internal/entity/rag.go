package entity

// TopK is the number of matches requested from the vector index.
const TopK = 3

// EmbeddingVector is the numeric representation of a query.
type EmbeddingVector []float32

// Match is a single document returned by the vector index.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

type Review struct {
	Professor string  `json:"professor"`
	Review    string  `json:"review"`
	Subject   string  `json:"subject"`
	Stars     float64 `json:"stars"`
}

// ReviewSeed is the layout of the local index seed file.
type ReviewSeed struct {
	Reviews []Review `json:"reviews"`
}
