package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Int64List stores an ordered list of ids as a JSON array so the same column
// works on sqlite and postgres.
type Int64List []int64

func (l *Int64List) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = Int64List{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("Int64List: unsupported Scan type %T", src)
	}
	if len(raw) == 0 {
		*l = Int64List{}
		return nil
	}
	out := Int64List{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("Int64List: %w", err)
	}
	*l = out
	return nil
}

func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]int64(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// GormDataType keeps AutoMigrate portable across dialects.
func (Int64List) GormDataType() string {
	return "text"
}
