package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// flexID is a body id that browsers send either as a number or as the
// string they read from the route (`{"id": "12"}`). Empty and null decode to 0.
type flexID uint

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return fmt.Errorf("invalid id %q", raw)
	}
	*id = flexID(n)
	return nil
}
