package core

import (
	"context"
	"fmt"
	"strconv"

	"hackledger/pkg/domain"
)

// NewAwardLifecycleRule blocks illegal award transitions: a winner is set at
// most once and never changed, is_awarded flips to true at most once and
// never back, an award is never paid without a winner, and the prize amount
// is immutable after creation.
func NewAwardLifecycleRule() domain.Rule {
	return awardLifecycleRule{}
}

type awardLifecycleRule struct{}

func (awardLifecycleRule) Name() string { return "award_lifecycle" }

func (awardLifecycleRule) Evaluate(_ context.Context, _ domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	block := func(id domain.AwardID, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "award_lifecycle",
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   domain.EntityAward,
			EntityID: strconv.FormatUint(uint64(id), 10),
		})
	}
	for _, change := range changes {
		if change.Entity != domain.EntityAward {
			continue
		}
		after, ok := change.After.(domain.Award)
		if !ok {
			continue
		}
		if after.IsAwarded && after.Winner == nil {
			block(after.ID, fmt.Sprintf("award %d marked paid without a winner", after.ID))
		}
		if change.Action == domain.ActionCreate {
			if after.Winner != nil {
				block(after.ID, fmt.Sprintf("award %d created with a winner already set", after.ID))
			}
			if after.IsAwarded {
				block(after.ID, fmt.Sprintf("award %d created already paid", after.ID))
			}
			continue
		}
		before, ok := change.Before.(domain.Award)
		if !ok {
			continue
		}
		if before.Winner != nil && (after.Winner == nil || *after.Winner != *before.Winner) {
			block(after.ID, fmt.Sprintf("award %d winner cannot change once judged", after.ID))
		}
		if before.IsAwarded && !after.IsAwarded {
			block(after.ID, fmt.Sprintf("award %d cannot be unpaid", after.ID))
		}
		if !before.Price.Equal(after.Price) {
			block(after.ID, fmt.Sprintf("award %d prize amount is immutable", after.ID))
		}
	}
	return res, nil
}
