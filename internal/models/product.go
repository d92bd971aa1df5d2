package models

import "time"

type Product struct {
	ID            string
	ShopID        string
	ShopName      string
	Name          string
	Description   string
	Category      string
	Tags          string
	OriginalPrice float64
	DiscountPrice float64
	Stock         int
	ImageKeys     []string
	Rating        float64
	SoldOut       int
	Reviews       []Review
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Review holds a snapshot of the reviewer at submission time. At most one
// review exists per (product, reviewer) pair.
type Review struct {
	ID        string
	ProductID string
	UserID    string
	UserName  string
	Rating    float64
	Comment   string
	CreatedAt time.Time
}

// UpsertReview overwrites the reviewer's earlier entry in place if one
// exists, otherwise appends. Returns true when an entry was replaced.
func (p *Product) UpsertReview(review Review) bool {
	for i := range p.Reviews {
		if p.Reviews[i].UserID == review.UserID {
			review.ID = p.Reviews[i].ID
			review.CreatedAt = p.Reviews[i].CreatedAt
			p.Reviews[i] = review
			return true
		}
	}
	p.Reviews = append(p.Reviews, review)
	return false
}

// MeanRating is the arithmetic mean of all review ratings. No weighting, no
// recency decay.
func (p *Product) MeanRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	var sum float64
	for _, review := range p.Reviews {
		sum += review.Rating
	}
	return sum / float64(len(p.Reviews))
}
