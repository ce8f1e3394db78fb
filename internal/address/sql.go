package address

import (
	"database/sql/driver"
	"fmt"
)

// Value stores the raw 32 bytes (BYTEA).
func (a Address) Value() (driver.Value, error) {
	b := make([]byte, Size)
	copy(b, a[:])
	return b, nil
}

// Scan accepts raw bytes or the base58 text form.
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		p, err := FromBytes(v)
		if err != nil {
			return err
		}
		*a = p
		return nil
	case string:
		p, err := Parse(v)
		if err != nil {
			return err
		}
		*a = p
		return nil
	default:
		return fmt.Errorf("address: cannot scan %T", src)
	}
}
