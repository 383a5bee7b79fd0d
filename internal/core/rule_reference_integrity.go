package core

import (
	"context"
	"fmt"
	"strconv"

	"hackledger/pkg/domain"
)

// NewReferenceIntegrityRule blocks commits that would persist a dangling
// adjacency reference: hackathon participant/category/submission lists,
// category award lists, member hackathon lists, and award winners must all
// resolve in the transaction snapshot. Submission category and member lists
// are validated by the submit guards instead; the rule checks only the
// references written by the change set.
func NewReferenceIntegrityRule() domain.Rule {
	return referenceIntegrityRule{}
}

type referenceIntegrityRule struct{}

func (referenceIntegrityRule) Name() string { return "reference_integrity" }

func (referenceIntegrityRule) Evaluate(_ context.Context, view domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	block := func(entity domain.EntityType, id, msg string) {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "reference_integrity",
			Severity: domain.SeverityBlock,
			Message:  msg,
			Entity:   entity,
			EntityID: id,
		})
	}
	for _, change := range changes {
		switch after := change.After.(type) {
		case domain.Hackathon:
			id := strconv.FormatUint(uint64(after.ID), 10)
			for _, participant := range after.Participants {
				if _, ok := view.FindMember(participant); !ok {
					block(domain.EntityHackathon, id, fmt.Sprintf("hackathon %d lists unknown participant %s", after.ID, participant))
				}
			}
			for _, categoryID := range after.Categories {
				if _, ok := view.FindCategory(categoryID); !ok {
					block(domain.EntityHackathon, id, fmt.Sprintf("hackathon %d lists unknown category %d", after.ID, categoryID))
				}
			}
			for _, submissionID := range after.Submissions {
				if _, ok := view.FindSubmission(submissionID); !ok {
					block(domain.EntityHackathon, id, fmt.Sprintf("hackathon %d lists unknown submission %d", after.ID, submissionID))
				}
			}
		case domain.Category:
			id := strconv.FormatUint(uint64(after.ID), 10)
			for _, awardID := range after.Awards {
				if _, ok := view.FindAward(awardID); !ok {
					block(domain.EntityCategory, id, fmt.Sprintf("category %d lists unknown award %d", after.ID, awardID))
				}
			}
		case domain.Award:
			if after.Winner != nil {
				if _, ok := view.FindSubmission(*after.Winner); !ok {
					id := strconv.FormatUint(uint64(after.ID), 10)
					block(domain.EntityAward, id, fmt.Sprintf("award %d names unknown winning submission %d", after.ID, *after.Winner))
				}
			}
		case domain.Member:
			for _, hackathonID := range after.JoinedHackathons {
				if _, ok := view.FindHackathon(hackathonID); !ok {
					block(domain.EntityMember, string(after.ID), fmt.Sprintf("member %s lists unknown joined hackathon %d", after.ID, hackathonID))
				}
			}
			for _, hackathonID := range after.CreatedHackathons {
				if _, ok := view.FindHackathon(hackathonID); !ok {
					block(domain.EntityMember, string(after.ID), fmt.Sprintf("member %s lists unknown created hackathon %d", after.ID, hackathonID))
				}
			}
		}
	}
	return res, nil
}
