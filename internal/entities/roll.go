package entities

// RollResult is the outcome of one dice expression. Total always equals
// the sum of Rolls plus Modifier.
type RollResult struct {
	ID         string `json:"id,omitempty"`
	Label      string `json:"label,omitempty"`
	Expression string `json:"expression"`
	Count      int    `json:"count"`
	Sides      int    `json:"sides"`
	Modifier   int    `json:"modifier"`
	Rolls      []int  `json:"rolls"`
	Total      int    `json:"total"`
}
