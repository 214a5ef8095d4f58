package display

import "encoding/json"

// MarshalJSON marshals v with indentation for terminal output
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
