package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zetflow/zetflow-live/model"
)

// JSON decodes a JSON array of vehicle objects. Unknown keys are ignored and
// missing keys stay nil.
var JSON Decoder = Func(decodeJSON)

func decodeJSON(payload []byte) ([]model.VehicleRecord, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformed)
	}

	var raw []*model.VehicleRecord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	vehicles := make([]model.VehicleRecord, 0, len(raw))
	for i, v := range raw {
		if v == nil {
			return nil, fmt.Errorf("%w: element %d is null", ErrMalformed, i)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, nil
}
