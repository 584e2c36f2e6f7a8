package mem0

// Record is a single memory as the backend returns it. Score is only present
// on semantic search responses, Event only on add responses.
type Record struct {
	ID        string         `json:"id"`
	Memory    string         `json:"memory"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Score     *float64       `json:"score,omitempty"`
	Event     string         `json:"event,omitempty"`
}

// AddOptions carries the parameters of an add call beyond the messages
// themselves. The pointer fields are tri-state: nil means the field is left
// out of the request entirely, while a non-nil value is always sent, so an
// explicit Infer=false reaches the backend.
type AddOptions struct {
	UserID             string
	Metadata           map[string]any
	CustomInstructions *string
	Includes           *string
	Excludes           *string
	Infer              *bool
}
