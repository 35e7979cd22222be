package repository

import (
	"encoding/json"
)

type scanner interface {
	Scan(dest ...any) error
}

// decodeJSON unmarshals a nullable JSONB column. It reports false for NULL.
func decodeJSON(raw []byte, out any) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}
