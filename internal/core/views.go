package core

import (
	"context"

	"hackledger/pkg/domain"
)

// Read-side assembly. Top-level lookups are required and fail with
// NotFoundError; nested joins are optional and skip records that do not
// resolve. The two tiers are deliberate and must not be unified: callers
// depend on list traversals tolerating dangling references while entry
// points fail loudly on a bad ID.

// ListHackathonsWithPrizes returns every hackathon paired with the summed
// prize of all awards reachable through its category list.
func (s *Service) ListHackathonsWithPrizes(ctx context.Context) ([]domain.HackathonWithTotalPrize, error) {
	var out []domain.HackathonWithTotalPrize
	err := s.store.View(ctx, func(view TransactionView) error {
		hackathons := view.ListHackathons()
		out = make([]domain.HackathonWithTotalPrize, 0, len(hackathons))
		for _, hackathon := range hackathons {
			out = append(out, domain.HackathonWithTotalPrize{
				Hackathon:  hackathon,
				TotalPrize: totalPrize(view, hackathon),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HackathonDetail resolves the hackathon's three adjacency lists into full
// participant, category and submission views.
func (s *Service) HackathonDetail(ctx context.Context, id HackathonID) (domain.HackathonDetail, error) {
	var detail domain.HackathonDetail
	err := s.store.View(ctx, func(view TransactionView) error {
		hackathon, ok := view.FindHackathon(id)
		if !ok {
			return domain.NotFoundError{Entity: EntityHackathon, Key: formatID(uint64(id))}
		}
		detail.Participants = make([]domain.MemberView, 0, len(hackathon.Participants))
		for _, participant := range hackathon.Participants {
			if mv, ok := memberView(view, participant); ok {
				detail.Participants = append(detail.Participants, mv)
			}
		}
		detail.Categories = make([]domain.CategoryView, 0, len(hackathon.Categories))
		for _, categoryID := range hackathon.Categories {
			if cv, ok := categoryView(view, categoryID); ok {
				detail.Categories = append(detail.Categories, cv)
			}
		}
		detail.Submissions = make([]domain.SubmissionView, 0, len(hackathon.Submissions))
		for _, submissionID := range hackathon.Submissions {
			if sv, ok := submissionView(view, submissionID); ok {
				detail.Submissions = append(detail.Submissions, sv)
			}
		}
		return nil
	})
	if err != nil {
		return domain.HackathonDetail{}, err
	}
	return detail, nil
}

// UserDetail resolves a member's profile with every created and joined
// hackathon paired with its total prize. Hackathons that no longer resolve
// are skipped.
func (s *Service) UserDetail(ctx context.Context, id AccountID) (domain.MemberDetail, error) {
	var detail domain.MemberDetail
	err := s.store.View(ctx, func(view TransactionView) error {
		member, ok := view.FindMember(id)
		if !ok {
			return domain.NotFoundError{Entity: EntityMember, Key: string(id)}
		}
		detail = domain.MemberDetail{
			ID:                member.ID,
			Name:              member.Name,
			Image:             member.Image,
			Bio:               member.Bio,
			JoinedHackathons:  hackathonsWithPrizes(view, member.JoinedHackathons),
			CreatedHackathons: hackathonsWithPrizes(view, member.CreatedHackathons),
		}
		return nil
	})
	if err != nil {
		return domain.MemberDetail{}, err
	}
	return detail, nil
}

func hackathonsWithPrizes(view TransactionView, ids []HackathonID) []domain.HackathonWithTotalPrize {
	out := make([]domain.HackathonWithTotalPrize, 0, len(ids))
	for _, id := range ids {
		hackathon, ok := view.FindHackathon(id)
		if !ok {
			continue
		}
		out = append(out, domain.HackathonWithTotalPrize{
			Hackathon:  hackathon,
			TotalPrize: totalPrize(view, hackathon),
		})
	}
	return out
}

// totalPrize sums every award reachable through the hackathon's categories.
// A missing category or award contributes zero.
func totalPrize(view TransactionView, hackathon Hackathon) Amount {
	total := domain.NewAmount(0)
	for _, categoryID := range hackathon.Categories {
		category, ok := view.FindCategory(categoryID)
		if !ok {
			continue
		}
		for _, awardID := range category.Awards {
			award, ok := view.FindAward(awardID)
			if !ok {
				continue
			}
			total = total.Add(award.Price)
		}
	}
	return total
}

func memberView(view TransactionView, id AccountID) (domain.MemberView, bool) {
	member, ok := view.FindMember(id)
	if !ok {
		return domain.MemberView{}, false
	}
	return domain.MemberView{ID: member.ID, Name: member.Name, Image: member.Image, Bio: member.Bio}, true
}

func categoryView(view TransactionView, id CategoryID) (domain.CategoryView, bool) {
	category, ok := view.FindCategory(id)
	if !ok {
		return domain.CategoryView{}, false
	}
	cv := domain.CategoryView{ID: category.ID, Name: category.Name, Awards: make([]domain.AwardView, 0, len(category.Awards))}
	for _, awardID := range category.Awards {
		if av, ok := awardView(view, awardID); ok {
			cv.Awards = append(cv.Awards, av)
		}
	}
	return cv, true
}

// awardView resolves the winning submission recursively when judged; a
// winner reference that no longer resolves renders as absent.
func awardView(view TransactionView, id AwardID) (domain.AwardView, bool) {
	award, ok := view.FindAward(id)
	if !ok {
		return domain.AwardView{}, false
	}
	av := domain.AwardView{ID: award.ID, Name: award.Name, Price: award.Price, IsAwarded: award.IsAwarded}
	if award.Winner != nil {
		if sv, ok := submissionView(view, *award.Winner); ok {
			av.Winner = &sv
		}
	}
	return av, true
}

func submissionView(view TransactionView, id SubmissionID) (domain.SubmissionView, bool) {
	submission, ok := view.FindSubmission(id)
	if !ok {
		return domain.SubmissionView{}, false
	}
	sv := domain.SubmissionView{
		ID:          submission.ID,
		Name:        submission.Name,
		Description: submission.Description,
		Image:       submission.Image,
		Time:        submission.Time,
		Links:       submission.Links,
		Categories:  make([]Category, 0, len(submission.Categories)),
		Members:     make([]domain.MemberView, 0, len(submission.Members)),
	}
	for _, categoryID := range submission.Categories {
		if category, ok := view.FindCategory(categoryID); ok {
			sv.Categories = append(sv.Categories, category)
		}
	}
	for _, member := range submission.Members {
		if mv, ok := memberView(view, member); ok {
			sv.Members = append(sv.Members, mv)
		}
	}
	return sv, true
}
