package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// VariantSelections maps a variant group label (e.g. "color") to the chosen
// variant identifier. Stored as a jsonb column.
type VariantSelections map[string]string

func (v *VariantSelections) Scan(src any) error {
	if src == nil {
		*v = VariantSelections{}
		return nil
	}

	switch raw := src.(type) {
	case []byte:
		return json.Unmarshal(raw, v)
	case string:
		return json.Unmarshal([]byte(raw), v)
	default:
		return fmt.Errorf("VariantSelections: unsupported Scan type %T", src)
	}
}

func (v VariantSelections) Value() (driver.Value, error) {
	if v == nil {
		return "{}", nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}
