package mansion

// WipeResult is sent in json mode once a wipe session is over
//
// For command `wipe`
type WipeResult struct {
	Type      string  `json:"type"`
	Path      string  `json:"path"`
	File      string  `json:"file"`
	Kind      string  `json:"kind"`
	Seed      int64   `json:"seed"`
	Outcome   string  `json:"outcome"`
	Completed bool    `json:"completed"`
	Bytes     int64   `json:"bytes"`
	Megabytes int64   `json:"megabytes"`
	Seconds   float64 `json:"seconds"`
	BPS       float64 `json:"bps"`
	Error     string  `json:"error,omitempty"`
}
