package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"hackledger/pkg/domain"
)

func seedMember(t *testing.T, store *Store, id domain.AccountID) {
	t.Helper()
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, cerr := tx.CreateMember(Member{ID: id, Name: string(id)})
		return cerr
	})
	if err != nil {
		t.Fatalf("seed member %s: %v", id, err)
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	store := NewStore(nil)
	var ids []domain.HackathonID
	for i := 0; i < 3; i++ {
		_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
			h, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near", Name: fmt.Sprintf("hack-%d", i)})
			if cerr != nil {
				return cerr
			}
			ids = append(ids, h.ID)
			return nil
		})
		if err != nil {
			t.Fatalf("create hackathon: %v", err)
		}
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("expected strictly increasing ids, got %v", ids)
		}
	}
	if ids[0] != 0 || ids[2] != 2 {
		t.Fatalf("expected ids 0..2, got %v", ids)
	}
}

func TestCountersIndependentPerEntity(t *testing.T) {
	store := NewStore(nil)
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		h, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near"})
		if cerr != nil {
			return cerr
		}
		c, cerr := tx.CreateCategory(Category{Name: "web"})
		if cerr != nil {
			return cerr
		}
		a, cerr := tx.CreateAward(Award{Name: "gold"})
		if cerr != nil {
			return cerr
		}
		sub, cerr := tx.CreateSubmission(Submission{Name: "proj"})
		if cerr != nil {
			return cerr
		}
		if h.ID != 0 || c.ID != 0 || a.ID != 0 || sub.ID != 0 {
			return fmt.Errorf("expected each counter to start at zero: %d %d %d %d", h.ID, c.ID, a.ID, sub.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestAbortedTransactionRollsBackCounters(t *testing.T) {
	store := NewStore(nil)
	boom := errors.New("guard failed")
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		if _, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near"}); cerr != nil {
			return cerr
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if _, ok := store.GetHackathon(0); ok {
		t.Fatalf("aborted create leaked into committed state")
	}

	// The next successful creation must reuse the ID the aborted call
	// would have taken: a failed creation never advances the counter.
	var created Hackathon
	if _, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		var cerr error
		created, cerr = tx.CreateHackathon(Hackathon{Owner: "alice.near"})
		return cerr
	}); err != nil {
		t.Fatalf("create after abort: %v", err)
	}
	if created.ID != 0 {
		t.Fatalf("expected id 0 after aborted creation, got %d", created.ID)
	}
}

func TestUpdateHackathonPreservesIDAndOwner(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near", Name: "original"})
		return cerr
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, uerr := tx.UpdateHackathon(0, func(h *Hackathon) error {
			h.Owner = "mallory.near"
			h.ID = 99
			h.Name = "renamed"
			return nil
		})
		return uerr
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	h, ok := store.GetHackathon(0)
	if !ok {
		t.Fatalf("hackathon missing after update")
	}
	if h.Owner != "alice.near" || h.ID != 0 {
		t.Fatalf("identifier or owner changed: %+v", h)
	}
	if h.Name != "renamed" {
		t.Fatalf("mutation dropped: %+v", h)
	}
}

func TestAbortedUpdateLeavesCommittedState(t *testing.T) {
	store := NewStore(nil)
	seedMember(t, store, "alice.near")

	boom := errors.New("late guard")
	_, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		if _, uerr := tx.UpdateMember("alice.near", func(m *Member) error {
			m.Name = "Alice"
			return nil
		}); uerr != nil {
			return uerr
		}
		// Inside the transaction the write is already visible.
		m, ok := tx.FindMember("alice.near")
		if !ok || m.Name != "Alice" {
			return fmt.Errorf("transactional write not visible: %+v", m)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	after, _ := store.GetMember("alice.near")
	if after.Name != "alice.near" {
		t.Fatalf("aborted update leaked: %+v", after)
	}
}

type blockAllRule struct{}

func (blockAllRule) Name() string { return "block_all" }

func (blockAllRule) Evaluate(_ context.Context, _ TransactionView, changes []domain.Change) (Result, error) {
	res := Result{}
	for range changes {
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "block_all",
			Severity: domain.SeverityBlock,
			Message:  "blocked",
		})
	}
	return res, nil
}

func TestBlockingViolationAbortsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockAllRule{})
	store := NewStore(engine)

	res, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, cerr := tx.CreateMember(Member{ID: "alice.near", Name: "alice"})
		return cerr
	})
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected rule violation error, got %v", err)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected one violation, got %d", len(res.Violations))
	}
	if _, ok := store.GetMember("alice.near"); ok {
		t.Fatalf("blocked transaction committed")
	}
}

func TestListHackathonsSorted(t *testing.T) {
	store := NewStore(nil)
	for i := 0; i < 4; i++ {
		if _, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
			_, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near"})
			return cerr
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	listed := store.ListHackathons()
	if len(listed) != 4 {
		t.Fatalf("expected 4 hackathons, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].ID <= listed[i-1].ID {
			t.Fatalf("list not ordered by id: %v then %v", listed[i-1].ID, listed[i].ID)
		}
	}
}

func TestCloneIsolatesAdjacencyLists(t *testing.T) {
	store := NewStore(nil)
	seedMember(t, store, "alice.near")
	if _, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near", Participants: []domain.AccountID{"alice.near"}})
		return cerr
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	h, _ := store.GetHackathon(0)
	h.Participants[0] = "mallory.near"
	again, _ := store.GetHackathon(0)
	if again.Participants[0] != "alice.near" {
		t.Fatalf("returned slice aliases store state")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewStore(nil)
	seedMember(t, store, "alice.near")
	winner := domain.SubmissionID(0)
	if _, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		if _, cerr := tx.CreateHackathon(Hackathon{Owner: "alice.near", Name: "hack"}); cerr != nil {
			return cerr
		}
		if _, cerr := tx.CreateSubmission(Submission{Name: "proj", Members: []domain.AccountID{"alice.near"}}); cerr != nil {
			return cerr
		}
		_, cerr := tx.CreateAward(Award{Name: "gold", Price: domain.NewAmount(5), Winner: &winner})
		return cerr
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snapshot := store.ExportState()
	raw, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}

	restored := NewStore(nil)
	restored.ImportState(decoded)

	award, ok := restored.GetAward(0)
	if !ok {
		t.Fatalf("award missing after restore")
	}
	if award.Winner == nil || *award.Winner != winner {
		t.Fatalf("winner lost in round trip: %+v", award)
	}
	if !award.Price.Equal(domain.NewAmount(5)) {
		t.Fatalf("price lost in round trip: %s", award.Price)
	}

	// Counters must survive so restored stores never reuse an ID.
	var next Hackathon
	if _, err := restored.RunInTransaction(context.Background(), func(tx Transaction) error {
		var cerr error
		next, cerr = tx.CreateHackathon(Hackathon{Owner: "alice.near"})
		return cerr
	}); err != nil {
		t.Fatalf("create after restore: %v", err)
	}
	if next.ID != 1 {
		t.Fatalf("expected counter to resume at 1, got %d", next.ID)
	}
}
