package pipe

// HopStats counts the activity of one hop. Pauses and Resumes count the
// hop's own transitions, not repeated idempotent calls.
type HopStats struct {
	Index       int   `json:"index"`
	Paused      bool  `json:"paused"`
	Written     int64 `json:"written"`
	WriteErrors int64 `json:"write_errors"`
	Pauses      int64 `json:"pauses"`
	Resumes     int64 `json:"resumes"`
	Ends        int64 `json:"ends"`
}

// Stats is a point-in-time snapshot of a pipe.
type Stats struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	State State      `json:"state"`
	Hops  []HopStats `json:"hops"`
}

// Delivered returns the number of items accepted by the last hop's sink.
func (s Stats) Delivered() int64 {
	if len(s.Hops) == 0 {
		return 0
	}
	return s.Hops[len(s.Hops)-1].Written
}
