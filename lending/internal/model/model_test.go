package model_test

import (
	"testing"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/stretchr/testify/require"
)

func TestNewViolationSummary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		counts map[model.ViolationKind]int
		want   model.ViolationSummary
	}{
		{
			name: "clean",
			want: model.ViolationSummary{PatronID: 7, Threshold: 3},
		},
		{
			name:   "below threshold",
			counts: map[model.ViolationKind]int{model.ViolationNoPickup: 1, model.ViolationNoReturn: 1},
			want:   model.ViolationSummary{PatronID: 7, NoPickup: 1, NoReturn: 1, Total: 2, Threshold: 3},
		},
		{
			name:   "kinds add up to a ban",
			counts: map[model.ViolationKind]int{model.ViolationNoPickup: 2, model.ViolationNoReturn: 1},
			want:   model.ViolationSummary{PatronID: 7, NoPickup: 2, NoReturn: 1, Total: 3, Threshold: 3, Banned: true},
		},
		{
			name:   "over threshold",
			counts: map[model.ViolationKind]int{model.ViolationNoReturn: 5},
			want:   model.ViolationSummary{PatronID: 7, NoReturn: 5, Total: 5, Threshold: 3, Banned: true},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, model.NewViolationSummary(7, tt.counts, 3))
		})
	}
}
