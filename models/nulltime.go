package models

import (
	"encoding/json"
	"time"
)

// NullTime distinguishes an absent JSON field from an explicit null in patches.
type NullTime struct {
	Set  bool
	Time *time.Time
}

func (n *NullTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Time = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	n.Time = &t
	return nil
}

func (n NullTime) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Time == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time)
}
