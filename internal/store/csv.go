package store

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/leapstack-labs/leapledger/pkg/core"
)

type csvCodec struct{}

func (csvCodec) Decode(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func (csvCodec) Encode(w io.Writer, customers []core.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.Columns); err != nil {
		return err
	}
	for _, c := range customers {
		if err := cw.Write([]string{
			c.Name,
			c.Phone,
			formatFloat(c.Monthly),
			formatFloat(c.Payment),
			formatFloat(c.Due()),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
