package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON stores any marshalable value in a json column. A NULL column scans
// to the zero value.
type JSON[T any] struct {
	V T
}

func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{V: v}
}

func (JSON[T]) GormDataType() string {
	return "json"
}

// To DB
func (j JSON[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// From DB
func (j *JSON[T]) Scan(value interface{}) error {
	var zero T
	switch data := value.(type) {
	case nil:
		j.V = zero
		return nil
	case string:
		return j.parse([]byte(data))
	case []byte:
		return j.parse(data)
	default:
		return fmt.Errorf("unsupported type for JSON column: %T", value)
	}
}

func (j *JSON[T]) parse(b []byte) error {
	var v T
	if len(b) == 0 {
		j.V = v
		return nil
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	j.V = v
	return nil
}
