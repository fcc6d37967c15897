package review

import "github.com/dukerupert/chapters/internal/domain"

// Histogram maps star values 1..5 to review counts.
// Index 0 is unused so the star value indexes directly.
type Histogram [6]int

// NewHistogram builds a histogram from the per-book ratings summary.
// Stars missing from the summary stay at 0; out-of-range rows are dropped.
func NewHistogram(ratings []domain.RatingCount) Histogram {
	var h Histogram
	for _, r := range ratings {
		if r.RatingStar < 1 || r.RatingStar > 5 {
			continue
		}
		h[r.RatingStar] = r.ReviewCount
	}
	return h
}

// Count returns the review count for one star value.
func (h Histogram) Count(star int) int {
	if star < 1 || star > 5 {
		return 0
	}
	return h[star]
}

// TotalReviews returns the count across all stars.
func (h Histogram) TotalReviews() int {
	total := 0
	for star := 1; star <= 5; star++ {
		total += h[star]
	}
	return total
}

// Average returns the weighted mean star rating, 0 for an empty histogram.
func (h Histogram) Average() float64 {
	total := h.TotalReviews()
	if total == 0 {
		return 0
	}

	sum := 0
	for star := 1; star <= 5; star++ {
		sum += star * h[star]
	}
	return float64(sum) / float64(total)
}
