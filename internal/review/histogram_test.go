package review

import (
	"testing"

	"github.com/dukerupert/chapters/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHistogram_Average(t *testing.T) {
	tests := []struct {
		name    string
		ratings []domain.RatingCount
		want    float64
	}{
		{
			name: "weighted mean",
			ratings: []domain.RatingCount{
				{RatingStar: 5, ReviewCount: 2},
				{RatingStar: 4, ReviewCount: 1},
			},
			want: 14.0 / 3.0,
		},
		{
			name:    "empty is zero, not NaN",
			ratings: nil,
			want:    0,
		},
		{
			name: "single star value",
			ratings: []domain.RatingCount{
				{RatingStar: 3, ReviewCount: 7},
			},
			want: 3,
		},
		{
			name: "all star values",
			ratings: []domain.RatingCount{
				{RatingStar: 1, ReviewCount: 1},
				{RatingStar: 2, ReviewCount: 1},
				{RatingStar: 3, ReviewCount: 1},
				{RatingStar: 4, ReviewCount: 1},
				{RatingStar: 5, ReviewCount: 1},
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistogram(tt.ratings)
			assert.InDelta(t, tt.want, h.Average(), 1e-9)
		})
	}
}

func TestHistogram_Counts(t *testing.T) {
	h := NewHistogram([]domain.RatingCount{
		{RatingStar: 5, ReviewCount: 12},
		{RatingStar: 1, ReviewCount: 3},
	})

	assert.Equal(t, 12, h.Count(5))
	assert.Equal(t, 3, h.Count(1))
	assert.Equal(t, 0, h.Count(4))
	assert.Equal(t, 15, h.TotalReviews())
}

func TestHistogram_IgnoresOutOfRangeStars(t *testing.T) {
	h := NewHistogram([]domain.RatingCount{
		{RatingStar: 0, ReviewCount: 9},
		{RatingStar: 6, ReviewCount: 9},
		{RatingStar: 2, ReviewCount: 4},
	})

	assert.Equal(t, 4, h.TotalReviews())
	assert.Equal(t, 0, h.Count(0))
	assert.InDelta(t, 2, h.Average(), 1e-9)
}
