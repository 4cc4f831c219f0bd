package ws

import (
	"encoding/json"

	"github.com/microcosm-cc/bluemonday"
)

// Any connected client may originate a broadcast, so string fields of
// inbound payloads are stripped of markup before fan-out. Overlay pages
// interpolate these values into the DOM; a compromised or buggy client
// must not be able to inject HTML through them.
type payloadSanitizer struct {
	policy *bluemonday.Policy
}

func newPayloadSanitizer() *payloadSanitizer {
	return &payloadSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize re-encodes the payload with every string value passed through
// the strict policy. Payloads that fail to decode are returned unchanged;
// the caller has already validated them as JSON.
func (p *payloadSanitizer) Sanitize(raw []byte) []byte {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return raw
	}

	clean, err := json.Marshal(p.sanitizeValue(value))
	if err != nil {
		return raw
	}
	return clean
}

func (p *payloadSanitizer) sanitizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case string:
		return p.policy.Sanitize(value)
	case map[string]interface{}:
		for k, elem := range value {
			value[k] = p.sanitizeValue(elem)
		}
		return value
	case []interface{}:
		for i, elem := range value {
			value[i] = p.sanitizeValue(elem)
		}
		return value
	default:
		return v
	}
}
