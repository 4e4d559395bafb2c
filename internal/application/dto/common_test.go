package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/pos-inventory/internal/application/dto"
)

func TestDefaultPage_LimitesDelLibro(t *testing.T) {
	cases := []struct {
		name       string
		in         dto.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"cero vuelve al default", dto.PageRequest{}, 100, 0},
		{"sobre el tope vuelve al default", dto.PageRequest{Limit: 501}, 100, 0},
		{"negativo vuelve al default", dto.PageRequest{Limit: -5, Offset: -3}, 100, 0},
		{"dentro del rango se respeta", dto.PageRequest{Limit: 250, Offset: 40}, 250, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.DefaultPage()
			assert.Equal(t, tc.wantLimit, tc.in.Limit)
			assert.Equal(t, tc.wantOffset, tc.in.Offset)
		})
	}
}
