package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomer_Due(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		want     float64
	}{
		{"outstanding", Customer{Monthly: 10, Payment: 3}, 7},
		{"settled", Customer{Monthly: 10, Payment: 10}, 0},
		{"credit", Customer{Monthly: 10, Payment: 15}, -5},
		{"empty", Customer{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.customer.Due())
		})
	}
}

func TestCustomer_View(t *testing.T) {
	c := Customer{Name: "Asha", Phone: "+9771", Monthly: 12.5, Payment: 2.5}
	v := c.View(3)

	assert.Equal(t, 3, v.Index)
	assert.Equal(t, "Asha", v.Name)
	assert.Equal(t, 10.0, v.Due)
	assert.False(t, v.Selected)
}

func TestNewEvent(t *testing.T) {
	c := Customer{Name: "Asha", Phone: "+9771", Monthly: 10, Payment: 8}
	ev := NewEvent(EventPaymentRecorded, c, 5)

	assert.Equal(t, EventPaymentRecorded, ev.Kind)
	assert.Equal(t, 5.0, ev.Amount)
	assert.Equal(t, 2.0, ev.Due)
	assert.Empty(t, ev.ID)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5.0"},
		{0, "0.0"},
		{-3, "-3.0"},
		{2.75, "2.75"},
		{0.1, "0.1"},
		{1234567, "1234567.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.in))
		})
	}
}
