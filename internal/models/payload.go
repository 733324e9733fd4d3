package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JobPayload is a job's input, stored as JSON text
type JobPayload map[string]any

func (p JobPayload) Value() (driver.Value, error) {
	return jsonColumn(p)
}

func (p *JobPayload) Scan(value any) error {
	return scanJSONColumn(value, (*map[string]any)(p))
}

// JobResult is a finished job's output, stored as JSON text
type JobResult map[string]any

func (r JobResult) Value() (driver.Value, error) {
	return jsonColumn(r)
}

func (r *JobResult) Scan(value any) error {
	return scanJSONColumn(value, (*map[string]any)(r))
}

// jsonColumn stores JSON as TEXT so sqlite json_extract can query it.
func jsonColumn(m map[string]any) (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func scanJSONColumn(value any, dst *map[string]any) error {
	switch v := value.(type) {
	case nil:
		*dst = make(map[string]any)
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into a JSON column", value)
	}
}
