package core

import (
	"context"
	"errors"
	"testing"

	"hackledger/internal/infra/persistence/memory"
	"hackledger/pkg/domain"
)

func expectBlocked(t *testing.T, err error, rule string) {
	t.Helper()
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected rule violation, got %v", err)
	}
	for _, v := range rve.Result.Violations {
		if v.Rule == rule && v.Severity == domain.SeverityBlock {
			return
		}
	}
	t.Fatalf("expected blocking violation from %s, got %+v", rule, rve.Result.Violations)
}

func TestAwardLifecycleRuleBlocksWinnerChange(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	ctx := context.Background()

	first := domain.SubmissionID(0)
	second := domain.SubmissionID(1)
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		if _, cerr := tx.CreateSubmission(Submission{Name: "a"}); cerr != nil {
			return cerr
		}
		if _, cerr := tx.CreateSubmission(Submission{Name: "b"}); cerr != nil {
			return cerr
		}
		_, cerr := tx.CreateAward(Award{Name: "gold", Price: domain.NewAmount(1)})
		return cerr
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, uerr := tx.UpdateAward(0, func(a *Award) error {
			a.Winner = &first
			return nil
		})
		return uerr
	}); err != nil {
		t.Fatalf("judge: %v", err)
	}

	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, uerr := tx.UpdateAward(0, func(a *Award) error {
			a.Winner = &second
			return nil
		})
		return uerr
	})
	expectBlocked(t, err, "award_lifecycle")
}

func TestAwardLifecycleRuleBlocksPayingWithoutWinner(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, cerr := tx.CreateAward(Award{Name: "gold", Price: domain.NewAmount(1)})
		return cerr
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, uerr := tx.UpdateAward(0, func(a *Award) error {
			a.IsAwarded = true
			return nil
		})
		return uerr
	})
	expectBlocked(t, err, "award_lifecycle")
}

func TestAwardLifecycleRuleBlocksUnpay(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	ctx := context.Background()
	winner := domain.SubmissionID(0)
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		if _, cerr := tx.CreateSubmission(Submission{Name: "a"}); cerr != nil {
			return cerr
		}
		w := winner
		_, cerr := tx.CreateAward(Award{Name: "gold", Price: domain.NewAmount(1)})
		if cerr != nil {
			return cerr
		}
		_, cerr = tx.UpdateAward(0, func(a *Award) error {
			a.Winner = &w
			a.IsAwarded = true
			return nil
		})
		return cerr
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, uerr := tx.UpdateAward(0, func(a *Award) error {
			a.IsAwarded = false
			return nil
		})
		return uerr
	})
	expectBlocked(t, err, "award_lifecycle")
}

func TestAwardLifecycleRuleBlocksPriceChange(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, cerr := tx.CreateAward(Award{Name: "gold", Price: domain.NewAmount(10)})
		return cerr
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, uerr := tx.UpdateAward(0, func(a *Award) error {
			a.Price = domain.NewAmount(20)
			return nil
		})
		return uerr
	})
	expectBlocked(t, err, "award_lifecycle")
}

func TestReferenceIntegrityRuleBlocksDanglingRefs(t *testing.T) {
	ctx := context.Background()

	t.Run("hackathon lists unknown category", func(t *testing.T) {
		store := memory.NewStore(NewDefaultRulesEngine())
		if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
			_, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near"})
			return cerr
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
			_, uerr := tx.UpdateHackathon(0, func(h *Hackathon) error {
				h.Categories = append(h.Categories, 42)
				return nil
			})
			return uerr
		})
		expectBlocked(t, err, "reference_integrity")
	})

	t.Run("category lists unknown award", func(t *testing.T) {
		store := memory.NewStore(NewDefaultRulesEngine())
		_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
			_, cerr := tx.CreateCategory(Category{Name: "web", Awards: []AwardID{7}})
			return cerr
		})
		expectBlocked(t, err, "reference_integrity")
	})

	t.Run("award names unknown winner", func(t *testing.T) {
		store := memory.NewStore(NewDefaultRulesEngine())
		winner := domain.SubmissionID(9)
		_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
			_, cerr := tx.CreateAward(Award{Name: "gold", Winner: &winner})
			return cerr
		})
		expectBlocked(t, err, "reference_integrity")
	})

	t.Run("member lists unknown hackathon", func(t *testing.T) {
		store := memory.NewStore(NewDefaultRulesEngine())
		_, err := store.RunInTransaction(ctx, func(tx Transaction) error {
			_, cerr := tx.CreateMember(Member{ID: "alice.near", JoinedHackathons: []HackathonID{3}})
			return cerr
		})
		expectBlocked(t, err, "reference_integrity")
	})
}

func TestReferenceIntegrityRuleAllowsResolvedRefs(t *testing.T) {
	store := memory.NewStore(NewDefaultRulesEngine())
	ctx := context.Background()
	// Creating a child and linking it from the parent in one transaction
	// must pass: the rule evaluates against the transactional snapshot.
	if _, err := store.RunInTransaction(ctx, func(tx Transaction) error {
		if _, cerr := tx.CreateMember(Member{ID: "alice.near", Name: "alice"}); cerr != nil {
			return cerr
		}
		h, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near"})
		if cerr != nil {
			return cerr
		}
		c, cerr := tx.CreateCategory(Category{Name: "web"})
		if cerr != nil {
			return cerr
		}
		_, cerr = tx.UpdateHackathon(h.ID, func(hk *Hackathon) error {
			hk.Categories = append(hk.Categories, c.ID)
			return nil
		})
		return cerr
	}); err != nil {
		t.Fatalf("expected resolved references to commit: %v", err)
	}
}
