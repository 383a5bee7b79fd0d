package core

import (
	"context"
	"testing"

	"hackledger/pkg/domain"
)

func TestListHackathonsWithPrizes(t *testing.T) {
	f := newFixture(t, 2)
	// A second award in the same category and a second empty hackathon.
	if _, _, err := f.svc.CreateAward(as(f.owner), f.hackathon.ID, f.category.ID, "silver", 1); err != nil {
		t.Fatalf("create second award: %v", err)
	}
	empty, _, err := f.svc.CreateHackathon(as(f.owner), HackathonPayload{Name: "empty"})
	if err != nil {
		t.Fatalf("create empty hackathon: %v", err)
	}

	list, err := f.svc.ListHackathonsWithPrizes(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 hackathons, got %d", len(list))
	}

	three, _ := domain.ScalePrize(3)
	byID := map[HackathonID]domain.HackathonWithTotalPrize{}
	for _, entry := range list {
		byID[entry.Hackathon.ID] = entry
	}
	if got := byID[f.hackathon.ID].TotalPrize; !got.Equal(three) {
		t.Fatalf("total prize %s, want %s", got, three)
	}
	if got := byID[empty.ID].TotalPrize; !got.IsZero() {
		t.Fatalf("empty hackathon total prize %s, want 0", got)
	}
}

func TestHackathonDetailResolvesJoins(t *testing.T) {
	f := newFixture(t, 1)
	if _, _, err := f.svc.JudgeWinner(as(f.owner), f.hackathon.ID, f.category.ID, f.award.ID, f.submission.ID); err != nil {
		t.Fatalf("judge: %v", err)
	}

	detail, err := f.svc.HackathonDetail(context.Background(), f.hackathon.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Participants) != 1 || detail.Participants[0].ID != domain.AccountID(f.member) {
		t.Fatalf("participants not resolved: %+v", detail.Participants)
	}
	if len(detail.Categories) != 1 || len(detail.Categories[0].Awards) != 1 {
		t.Fatalf("categories not resolved: %+v", detail.Categories)
	}
	award := detail.Categories[0].Awards[0]
	if award.Winner == nil || award.Winner.ID != f.submission.ID {
		t.Fatalf("winner not resolved recursively: %+v", award)
	}
	if len(award.Winner.Members) != 1 || award.Winner.Members[0].ID != domain.AccountID(f.member) {
		t.Fatalf("winning submission members not resolved: %+v", award.Winner)
	}
	if len(detail.Submissions) != 1 || detail.Submissions[0].ID != f.submission.ID {
		t.Fatalf("submissions not resolved: %+v", detail.Submissions)
	}
	if len(detail.Submissions[0].Categories) != 1 || detail.Submissions[0].Categories[0].ID != f.category.ID {
		t.Fatalf("submission categories not resolved: %+v", detail.Submissions[0].Categories)
	}
}

func TestHackathonDetailHardFailsOnUnknownID(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.HackathonDetail(context.Background(), 42); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHackathonDetailSkipsUnknownSubmissionCategories(t *testing.T) {
	f := newFixture(t, 1)
	// A submission may list category IDs that were never created; nested
	// joins skip them rather than failing the read.
	sub, _, err := f.svc.SubmitProject(as(f.member), f.hackathon.ID, SubmissionInput{
		Name:       "loose",
		Categories: []CategoryID{f.category.ID, 77},
		Members:    []AccountID{domain.AccountID(f.member)},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	detail, err := f.svc.HackathonDetail(context.Background(), f.hackathon.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	for _, sv := range detail.Submissions {
		if sv.ID != sub.ID {
			continue
		}
		if len(sv.Categories) != 1 || sv.Categories[0].ID != f.category.ID {
			t.Fatalf("expected dangling category to be skipped, got %+v", sv.Categories)
		}
		return
	}
	t.Fatalf("submission %d missing from detail", sub.ID)
}

func TestUserDetail(t *testing.T) {
	f := newFixture(t, 4)

	owner, err := f.svc.UserDetail(context.Background(), domain.AccountID(f.owner))
	if err != nil {
		t.Fatalf("owner detail: %v", err)
	}
	four, _ := domain.ScalePrize(4)
	if len(owner.CreatedHackathons) != 1 || !owner.CreatedHackathons[0].TotalPrize.Equal(four) {
		t.Fatalf("created hackathons not resolved: %+v", owner.CreatedHackathons)
	}
	if len(owner.JoinedHackathons) != 0 {
		t.Fatalf("owner joined nothing: %+v", owner.JoinedHackathons)
	}

	member, err := f.svc.UserDetail(context.Background(), domain.AccountID(f.member))
	if err != nil {
		t.Fatalf("member detail: %v", err)
	}
	if len(member.JoinedHackathons) != 1 || member.JoinedHackathons[0].Hackathon.ID != f.hackathon.ID {
		t.Fatalf("joined hackathons not resolved: %+v", member.JoinedHackathons)
	}

	if _, err := f.svc.UserDetail(context.Background(), "ghost.near"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}
