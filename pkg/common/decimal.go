package common

import (
	dec "github.com/govalues/decimal"
)

type Decimal struct {
	dec.Decimal
}

func (d *Decimal) Equal(o *Decimal) bool {
	return d.Decimal.Cmp(o.Decimal) == 0
}

func (d *Decimal) Less(o *Decimal) bool {
	return d.Decimal.Cmp(o.Decimal) < 0
}

func (d *Decimal) Compare(o *Decimal) int {
	return d.Decimal.Cmp(o.Decimal)
}

func (d *Decimal) String() string {
	return d.Decimal.String()
}

func ParseDecimal(s string, scale int) (Decimal, error) {
	v, err := dec.ParseExact(s, scale)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{v}, nil
}

func NewDecimal(whole, frac int64, scale int) (Decimal, error) {
	v, err := dec.NewFromInt64(whole, frac, scale)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{v}, nil
}
