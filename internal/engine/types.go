package engine

// Seeds is the public half of the provable-fairness inputs.
type Seeds struct {
	Server string `json:"server"` // ASCII seed string; never hex-decoded
	Client string `json:"client"`
}
