package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ierr "github.com/leapstack-labs/leapledger/internal/errors"
	"github.com/leapstack-labs/leapledger/pkg/core"
)

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      core.Customer
		wantErr bool
	}{
		{"valid", core.Customer{Name: "A", Phone: "+1", Monthly: 10, Payment: 0}, false},
		{"zero amounts", core.Customer{Name: "A", Phone: "+1"}, false},
		{"missing name", core.Customer{Phone: "+1", Monthly: 10}, true},
		{"missing phone", core.Customer{Name: "A", Monthly: 10}, true},
		{"negative monthly", core.Customer{Name: "A", Phone: "+1", Monthly: -1}, true},
		{"negative payment", core.Customer{Name: "A", Phone: "+1", Payment: -0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
