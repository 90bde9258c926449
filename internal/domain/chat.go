package domain

import (
	"encoding/json"
	"time"
)

// Attribute names shared by the store items and the JSON body.
const (
	AttrUser1     = "user1"
	AttrUser2     = "user2"
	AttrUpdatedDt = "updatedDt"
)

// Chat is a two-party conversation record as stored in the chats table.
// Attributes holds every other item attribute and is passed through untouched.
type Chat struct {
	User1      string
	User2      string
	UpdatedAt  time.Time
	Attributes map[string]any
}

// MarshalJSON flattens the passthrough attributes and the known fields into one
// object.
func (c Chat) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Attributes)+3)
	for k, v := range c.Attributes {
		out[k] = v
	}
	out[AttrUser1] = c.User1
	out[AttrUser2] = c.User2
	out[AttrUpdatedDt] = c.UpdatedAt.UTC().Format(time.RFC3339Nano)
	return json.Marshal(out)
}
