package domain

// ProcessReport summarizes one engine pass over due items.
type ProcessReport struct {
	Due      int `json:"due"`
	Executed int `json:"executed"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}
