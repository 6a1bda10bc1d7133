package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReviewStatusIsValid(t *testing.T) {
	assert.True(t, StatusInReview.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.False(t, ReviewStatus("published").IsValid())
	assert.False(t, ReviewStatus("").IsValid())
}

func TestNextStatusOnEdit(t *testing.T) {
	tests := []struct {
		name            string
		current         ReviewStatus
		touchesReviewed bool
		want            ReviewStatus
	}{
		{"in_review stays in_review", StatusInReview, false, StatusInReview},
		{"in_review stays in_review even on metric edit", StatusInReview, true, StatusInReview},
		{"approved with metric edit returns to review", StatusApproved, true, StatusInReview},
		{"approved with descriptive edit stays approved", StatusApproved, false, StatusApproved},
		{"rejected returns to review on any edit", StatusRejected, false, StatusInReview},
		{"rejected returns to review on metric edit", StatusRejected, true, StatusInReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStatusOnEdit(tt.current, tt.touchesReviewed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewsletterIsVisibleTo(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	n := &Newsletter{ID: uuid.New(), OwnerID: owner}

	assert.True(t, n.IsVisibleTo(owner, false))
	assert.False(t, n.IsVisibleTo(stranger, false))
	assert.True(t, n.IsVisibleTo(stranger, true), "admin sees everything")
}

func TestAuthorFullName(t *testing.T) {
	assert.Equal(t, "Maria Rossi", (&Newsletter{AuthorFirstName: "Maria", AuthorLastName: "Rossi"}).AuthorFullName())
	assert.Equal(t, "Maria", (&Newsletter{AuthorFirstName: "Maria"}).AuthorFullName())
	assert.Equal(t, "Rossi", (&Newsletter{AuthorLastName: "Rossi"}).AuthorFullName())
	assert.Equal(t, "", (&Newsletter{}).AuthorFullName())
}
