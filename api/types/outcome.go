package types

import "encoding/json"

// Args holds the named string arguments of a logical operation. Optional
// arguments are supplied as empty strings and are dropped before the request
// is built.
type Args map[string]string

// Unmarshal copies the arguments into a typed struct via JSON round-trip.
func (a Args) Unmarshal(i interface{}) error {
	dat, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return json.Unmarshal(dat, i)
}

// Outcome is the single terminal result of a dispatched operation. Exactly
// one of the success payload (Object or List, depending on the operation's
// shape) or Error is set.
type Outcome struct {
	// Object carries the payload of object-shaped operations.
	Object map[string]interface{} `json:"object,omitempty"`

	// List carries the payload of list-shaped operations.
	List []interface{} `json:"list,omitempty"`

	// Error is the human-readable failure message. Empty on success.
	Error string `json:"error,omitempty"`

	// Key is the operation-scoped correlation key (e.g. the target status
	// id), set so that concurrent calls for different targets can be told
	// apart by the caller.
	Key string `json:"key,omitempty"`

	// InitialPage is set on timeline-shaped results. It is computed from
	// whether a pagination cursor was supplied on the request, never from
	// the response.
	InitialPage bool `json:"initial_page,omitempty"`
}

func (o Outcome) Success() bool {
	return o.Error == ""
}

// OutcomeError is the JSON error envelope returned by the HTTP façade.
type OutcomeError struct {
	Error string `json:"error"`
}
