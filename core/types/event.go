package types

// Event is a structured record of a state transition performed by one of the
// native engines. Attributes carry string-encoded fields so downstream
// consumers (RPC, indexers) never need module-specific decoding.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
