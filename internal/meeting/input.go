package meeting

import (
	"bytes"
	"encoding/json"
	"time"
)

// OptionalIDs is an attendee id list that remembers whether it was supplied.
// A missing key and an explicit null both leave Set false; [] sets it with no
// values.
type OptionalIDs struct {
	Set    bool
	Values []string
}

// Provided returns an OptionalIDs that was supplied with the given values.
func Provided(values ...string) OptionalIDs {
	if values == nil {
		values = []string{}
	}
	return OptionalIDs{Set: true, Values: values}
}

// NonEmpty reports whether the list was supplied with at least one entry.
func (o OptionalIDs) NonEmpty() bool {
	return o.Set && len(o.Values) > 0
}

func (o *OptionalIDs) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = OptionalIDs{}
		return nil
	}
	var v []string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		v = []string{}
	}
	*o = OptionalIDs{Set: true, Values: v}
	return nil
}

func (o OptionalIDs) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Values)
}

// Input is the create/edit payload. Pointer fields are nil when the key was
// absent from the request.
type Input struct {
	Agenda       *string     `json:"agenda"`
	Attendes     OptionalIDs `json:"attendes"`
	AttendesLead OptionalIDs `json:"attendesLead"`
	Location     *string     `json:"location"`
	Related      *string     `json:"related"`
	DateTime     *time.Time  `json:"dateTime"`
	Notes        *string     `json:"notes"`
	CreateBy     *string     `json:"createBy"`
}
