package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PlantList accepts either a JSON array of names or a single comma-joined string.
type PlantList []string

func (l *PlantList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = PlantList{}
			return nil
		}
		parts := strings.Split(s, ",")
		out := make(PlantList, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		*l = out
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("plant list must be an array of strings or a comma-separated string")
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}

// Date accepts "2006-01-02" or RFC 3339 timestamps.
type Date time.Time

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = Date(t)
			return nil
		}
	}
	return fmt.Errorf("date %q must be YYYY-MM-DD or RFC 3339", s)
}

func (d Date) Time() time.Time { return time.Time(d) }
