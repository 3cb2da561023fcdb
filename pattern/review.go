package pattern

import "github.com/kpaulsen/brandlens/model"

// Review thresholds. Rules at or above ConfirmThreshold are accepted
// automatically; rules in [ReviewThreshold, ConfirmThreshold) wait for a
// human decision; anything below is dropped.
const (
	ConfirmThreshold = 0.6
	ReviewThreshold  = 0.3
)

// Partition is the result of splitting a synthesized rule list by
// confidence.
type Partition struct {
	Confirmed   []model.BrandRule
	NeedsReview []model.BrandRule
}

// Review partitions rules by confidence. If no rule clears either
// threshold while the list is non-empty, everything goes to NeedsReview:
// surfacing low-confidence guesses to the reviewer beats discarding
// signal silently.
func Review(rules []model.BrandRule) Partition {
	var p Partition
	for _, r := range rules {
		switch {
		case r.Confidence >= ConfirmThreshold:
			p.Confirmed = append(p.Confirmed, r)
		case r.Confidence >= ReviewThreshold:
			p.NeedsReview = append(p.NeedsReview, r)
		}
	}

	if len(p.Confirmed) == 0 && len(p.NeedsReview) == 0 && len(rules) > 0 {
		p.NeedsReview = append([]model.BrandRule(nil), rules...)
	}
	return p
}
