package models

import "testing"

func TestUpsertReviewAppends(t *testing.T) {
	var product Product

	replaced := product.UpsertReview(Review{ID: "r1", UserID: "u1", Rating: 4})
	if replaced {
		t.Fatal("first review should append, not replace")
	}
	if len(product.Reviews) != 1 {
		t.Fatalf("len(Reviews) = %d, want 1", len(product.Reviews))
	}
}

func TestUpsertReviewOverwritesInPlace(t *testing.T) {
	product := Product{Reviews: []Review{
		{ID: "r1", UserID: "u1", Rating: 2, Comment: "meh"},
		{ID: "r2", UserID: "u2", Rating: 5, Comment: "great"},
	}}

	replaced := product.UpsertReview(Review{ID: "new", UserID: "u1", Rating: 4, Comment: "better now"})
	if !replaced {
		t.Fatal("expected existing review to be replaced")
	}
	if len(product.Reviews) != 2 {
		t.Fatalf("len(Reviews) = %d, want 2", len(product.Reviews))
	}
	if product.Reviews[0].UserID != "u1" {
		t.Fatal("replacement must keep the original position")
	}
	if product.Reviews[0].ID != "r1" {
		t.Fatalf("replacement must keep the original review id, got %q", product.Reviews[0].ID)
	}
	if product.Reviews[0].Rating != 4 || product.Reviews[0].Comment != "better now" {
		t.Fatalf("replacement did not take: %+v", product.Reviews[0])
	}
}

func TestMeanRating(t *testing.T) {
	product := Product{Reviews: []Review{
		{UserID: "u1", Rating: 1},
		{UserID: "u2", Rating: 2},
		{UserID: "u3", Rating: 4},
	}}

	got := product.MeanRating()
	want := 7.0 / 3.0
	if got != want {
		t.Fatalf("MeanRating() = %v, want %v", got, want)
	}
}

func TestMeanRatingEmpty(t *testing.T) {
	var product Product
	if got := product.MeanRating(); got != 0 {
		t.Fatalf("MeanRating() = %v, want 0", got)
	}
}
