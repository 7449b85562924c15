// Package table contains the poker table records exchanged with the tables
// backend and the schema they must satisfy when decoded.
package table

import "encoding/json"

// Hand is the hole cards dealt to one seat. A nil Hand marks a seat with no
// hand and is encoded as JSON null; an empty non-nil Hand is encoded as [].
type Hand []string

// Absent reports whether the seat has no hand dealt.
func (h Hand) Absent() bool { return h == nil }

// Summary is the projection of a Table used by list views.
type Summary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Table is the full record for one poker table.
type Table struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Capacity       int      `json:"capacity"`
	HoleCards      []Hand   `json:"holeCards"`      // one slot per seat
	CommunityCards []string `json:"communityCards"` // board cards
}

// CreateInput is the payload submitted to create a table. The backend assigns
// the id, so the type has no field for it.
type CreateInput struct {
	Name           string   `json:"name"`
	Capacity       int      `json:"capacity"`
	HoleCards      []Hand   `json:"holeCards"`
	CommunityCards []string `json:"communityCards"`
}

// MarshalJSON encodes nil collections as empty arrays so the payload always
// carries the shape the backend validates. Absent hands inside HoleCards are
// kept as null.
func (in CreateInput) MarshalJSON() ([]byte, error) {
	type wire CreateInput
	w := wire(in)
	if w.HoleCards == nil {
		w.HoleCards = []Hand{}
	}
	if w.CommunityCards == nil {
		w.CommunityCards = []string{}
	}
	return json.Marshal(w)
}
