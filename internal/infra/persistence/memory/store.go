// Package memory provides an in-memory implementation of the core
// persistence store used for tests and ephemeral environments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hackledger/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Member aliases domain.Member for in-memory persistence operations.
	Member = domain.Member
	// Hackathon aliases domain.Hackathon.
	Hackathon = domain.Hackathon
	// Category aliases domain.Category.
	Category = domain.Category
	// Award aliases domain.Award.
	Award = domain.Award
	// Submission aliases domain.Submission.
	Submission = domain.Submission
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	members     map[domain.AccountID]Member
	hackathons  map[domain.HackathonID]Hackathon
	categories  map[domain.CategoryID]Category
	awards      map[domain.AwardID]Award
	submissions map[domain.SubmissionID]Submission

	nextHackathonID  domain.HackathonID
	nextCategoryID   domain.CategoryID
	nextAwardID      domain.AwardID
	nextSubmissionID domain.SubmissionID
}

// Snapshot captures a point-in-time clone of the store state, including the
// four allocation counters.
type Snapshot struct {
	Members     map[domain.AccountID]Member        `json:"members"`
	Hackathons  map[domain.HackathonID]Hackathon   `json:"hackathons"`
	Categories  map[domain.CategoryID]Category     `json:"categories"`
	Awards      map[domain.AwardID]Award           `json:"awards"`
	Submissions map[domain.SubmissionID]Submission `json:"submissions"`

	NextHackathonID  domain.HackathonID  `json:"next_hackathon_id"`
	NextCategoryID   domain.CategoryID   `json:"next_category_id"`
	NextAwardID      domain.AwardID      `json:"next_award_id"`
	NextSubmissionID domain.SubmissionID `json:"next_submission_id"`
}

func newMemoryState() memoryState {
	return memoryState{
		members:     make(map[domain.AccountID]Member),
		hackathons:  make(map[domain.HackathonID]Hackathon),
		categories:  make(map[domain.CategoryID]Category),
		awards:      make(map[domain.AwardID]Award),
		submissions: make(map[domain.SubmissionID]Submission),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.members {
		cloned.members[k] = cloneMember(v)
	}
	for k, v := range s.hackathons {
		cloned.hackathons[k] = cloneHackathon(v)
	}
	for k, v := range s.categories {
		cloned.categories[k] = cloneCategory(v)
	}
	for k, v := range s.awards {
		cloned.awards[k] = cloneAward(v)
	}
	for k, v := range s.submissions {
		cloned.submissions[k] = cloneSubmission(v)
	}
	cloned.nextHackathonID = s.nextHackathonID
	cloned.nextCategoryID = s.nextCategoryID
	cloned.nextAwardID = s.nextAwardID
	cloned.nextSubmissionID = s.nextSubmissionID
	return cloned
}

func cloneMember(m Member) Member {
	cp := m
	cp.JoinedHackathons = append([]domain.HackathonID(nil), m.JoinedHackathons...)
	cp.CreatedHackathons = append([]domain.HackathonID(nil), m.CreatedHackathons...)
	return cp
}

func cloneHackathon(h Hackathon) Hackathon {
	cp := h
	cp.Tags = append([]string(nil), h.Tags...)
	cp.Participants = append([]domain.AccountID(nil), h.Participants...)
	cp.Submissions = append([]domain.SubmissionID(nil), h.Submissions...)
	cp.Categories = append([]domain.CategoryID(nil), h.Categories...)
	return cp
}

func cloneCategory(c Category) Category {
	cp := c
	cp.Awards = append([]domain.AwardID(nil), c.Awards...)
	return cp
}

func cloneAward(a Award) Award {
	cp := a
	if a.Winner != nil {
		w := *a.Winner
		cp.Winner = &w
	}
	return cp
}

func cloneSubmission(s Submission) Submission {
	cp := s
	cp.Links = append([]string(nil), s.Links...)
	cp.Categories = append([]domain.CategoryID(nil), s.Categories...)
	cp.Members = append([]domain.AccountID(nil), s.Members...)
	return cp
}

// Store provides an in-memory transactional store for the ledger domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
	}
}

// transaction carries a mutable clone of the state; it is discarded
// wholesale on any error, so counters advance only on commit.
type transaction struct {
	state   memoryState
	changes []Change
}

var _ Transaction = (*transaction)(nil)

type view struct {
	state *memoryState
}

var _ TransactionView = view{}

// RunInTransaction executes fn within a transactional copy of the store state.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, view{state: &tx.state}, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(view{state: &snapshot})
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot exposes the transactional state as a read-only view.
func (tx *transaction) Snapshot() TransactionView {
	return view{state: &tx.state}
}

// CreateMember stores a new member keyed by its identity.
func (tx *transaction) CreateMember(m Member) (Member, error) {
	if m.ID == "" {
		return Member{}, fmt.Errorf("member identity is empty")
	}
	if _, exists := tx.state.members[m.ID]; exists {
		return Member{}, fmt.Errorf("member %q already exists", m.ID)
	}
	if m.JoinedHackathons == nil {
		m.JoinedHackathons = []domain.HackathonID{}
	}
	if m.CreatedHackathons == nil {
		m.CreatedHackathons = []domain.HackathonID{}
	}
	tx.state.members[m.ID] = cloneMember(m)
	tx.recordChange(Change{Entity: domain.EntityMember, Action: domain.ActionCreate, After: cloneMember(m)})
	return cloneMember(m), nil
}

// UpdateMember mutates a member using the provided mutator function.
func (tx *transaction) UpdateMember(id domain.AccountID, mutator func(*Member) error) (Member, error) {
	current, ok := tx.state.members[id]
	if !ok {
		return Member{}, domain.NotFoundError{Entity: domain.EntityMember, Key: string(id)}
	}
	before := cloneMember(current)
	if err := mutator(&current); err != nil {
		return Member{}, err
	}
	current.ID = id
	tx.state.members[id] = cloneMember(current)
	tx.recordChange(Change{Entity: domain.EntityMember, Action: domain.ActionUpdate, Before: before, After: cloneMember(current)})
	return cloneMember(current), nil
}

// CreateHackathon stores a new hackathon under the next allocated identifier.
func (tx *transaction) CreateHackathon(h Hackathon) (Hackathon, error) {
	h.ID = tx.state.nextHackathonID
	tx.state.nextHackathonID++
	if h.Tags == nil {
		h.Tags = []string{}
	}
	if h.Participants == nil {
		h.Participants = []domain.AccountID{}
	}
	if h.Submissions == nil {
		h.Submissions = []domain.SubmissionID{}
	}
	if h.Categories == nil {
		h.Categories = []domain.CategoryID{}
	}
	tx.state.hackathons[h.ID] = cloneHackathon(h)
	tx.recordChange(Change{Entity: domain.EntityHackathon, Action: domain.ActionCreate, After: cloneHackathon(h)})
	return cloneHackathon(h), nil
}

// UpdateHackathon mutates a hackathon. Identifier and owner are fixed at
// creation and restored after the mutator runs.
func (tx *transaction) UpdateHackathon(id domain.HackathonID, mutator func(*Hackathon) error) (Hackathon, error) {
	current, ok := tx.state.hackathons[id]
	if !ok {
		return Hackathon{}, domain.NotFoundError{Entity: domain.EntityHackathon, Key: fmt.Sprint(id)}
	}
	before := cloneHackathon(current)
	owner := current.Owner
	if err := mutator(&current); err != nil {
		return Hackathon{}, err
	}
	current.ID = id
	current.Owner = owner
	tx.state.hackathons[id] = cloneHackathon(current)
	tx.recordChange(Change{Entity: domain.EntityHackathon, Action: domain.ActionUpdate, Before: before, After: cloneHackathon(current)})
	return cloneHackathon(current), nil
}

// CreateCategory stores a new category under the next allocated identifier.
func (tx *transaction) CreateCategory(c Category) (Category, error) {
	c.ID = tx.state.nextCategoryID
	tx.state.nextCategoryID++
	if c.Awards == nil {
		c.Awards = []domain.AwardID{}
	}
	tx.state.categories[c.ID] = cloneCategory(c)
	tx.recordChange(Change{Entity: domain.EntityCategory, Action: domain.ActionCreate, After: cloneCategory(c)})
	return cloneCategory(c), nil
}

// UpdateCategory mutates a category.
func (tx *transaction) UpdateCategory(id domain.CategoryID, mutator func(*Category) error) (Category, error) {
	current, ok := tx.state.categories[id]
	if !ok {
		return Category{}, domain.NotFoundError{Entity: domain.EntityCategory, Key: fmt.Sprint(id)}
	}
	before := cloneCategory(current)
	if err := mutator(&current); err != nil {
		return Category{}, err
	}
	current.ID = id
	tx.state.categories[id] = cloneCategory(current)
	tx.recordChange(Change{Entity: domain.EntityCategory, Action: domain.ActionUpdate, Before: before, After: cloneCategory(current)})
	return cloneCategory(current), nil
}

// CreateAward stores a new award under the next allocated identifier.
func (tx *transaction) CreateAward(a Award) (Award, error) {
	a.ID = tx.state.nextAwardID
	tx.state.nextAwardID++
	tx.state.awards[a.ID] = cloneAward(a)
	tx.recordChange(Change{Entity: domain.EntityAward, Action: domain.ActionCreate, After: cloneAward(a)})
	return cloneAward(a), nil
}

// UpdateAward mutates an award.
func (tx *transaction) UpdateAward(id domain.AwardID, mutator func(*Award) error) (Award, error) {
	current, ok := tx.state.awards[id]
	if !ok {
		return Award{}, domain.NotFoundError{Entity: domain.EntityAward, Key: fmt.Sprint(id)}
	}
	before := cloneAward(current)
	if err := mutator(&current); err != nil {
		return Award{}, err
	}
	current.ID = id
	tx.state.awards[id] = cloneAward(current)
	tx.recordChange(Change{Entity: domain.EntityAward, Action: domain.ActionUpdate, Before: before, After: cloneAward(current)})
	return cloneAward(current), nil
}

// CreateSubmission stores a new submission under the next allocated
// identifier. Submissions are immutable once created; there is no update.
func (tx *transaction) CreateSubmission(sub Submission) (Submission, error) {
	sub.ID = tx.state.nextSubmissionID
	tx.state.nextSubmissionID++
	if sub.Links == nil {
		sub.Links = []string{}
	}
	if sub.Categories == nil {
		sub.Categories = []domain.CategoryID{}
	}
	if sub.Members == nil {
		sub.Members = []domain.AccountID{}
	}
	tx.state.submissions[sub.ID] = cloneSubmission(sub)
	tx.recordChange(Change{Entity: domain.EntitySubmission, Action: domain.ActionCreate, After: cloneSubmission(sub)})
	return cloneSubmission(sub), nil
}

// FindMember retrieves a member from the transactional state.
func (tx *transaction) FindMember(id domain.AccountID) (Member, bool) {
	return tx.Snapshot().FindMember(id)
}

// FindHackathon retrieves a hackathon from the transactional state.
func (tx *transaction) FindHackathon(id domain.HackathonID) (Hackathon, bool) {
	return tx.Snapshot().FindHackathon(id)
}

// FindCategory retrieves a category from the transactional state.
func (tx *transaction) FindCategory(id domain.CategoryID) (Category, bool) {
	return tx.Snapshot().FindCategory(id)
}

// FindAward retrieves an award from the transactional state.
func (tx *transaction) FindAward(id domain.AwardID) (Award, bool) {
	return tx.Snapshot().FindAward(id)
}

// FindSubmission retrieves a submission from the transactional state.
func (tx *transaction) FindSubmission(id domain.SubmissionID) (Submission, bool) {
	return tx.Snapshot().FindSubmission(id)
}

// View methods -----------------------------------------------------------

// ListMembers returns all members within the snapshot, ordered by identity.
func (v view) ListMembers() []Member {
	out := make([]Member, 0, len(v.state.members))
	for _, m := range v.state.members {
		out = append(out, cloneMember(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListHackathons returns all hackathons within the snapshot, ordered by identifier.
func (v view) ListHackathons() []Hackathon {
	out := make([]Hackathon, 0, len(v.state.hackathons))
	for _, h := range v.state.hackathons {
		out = append(out, cloneHackathon(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindMember retrieves a member by identity from the snapshot.
func (v view) FindMember(id domain.AccountID) (Member, bool) {
	m, ok := v.state.members[id]
	if !ok {
		return Member{}, false
	}
	return cloneMember(m), true
}

// FindHackathon retrieves a hackathon by ID from the snapshot.
func (v view) FindHackathon(id domain.HackathonID) (Hackathon, bool) {
	h, ok := v.state.hackathons[id]
	if !ok {
		return Hackathon{}, false
	}
	return cloneHackathon(h), true
}

// FindCategory retrieves a category by ID from the snapshot.
func (v view) FindCategory(id domain.CategoryID) (Category, bool) {
	c, ok := v.state.categories[id]
	if !ok {
		return Category{}, false
	}
	return cloneCategory(c), true
}

// FindAward retrieves an award by ID from the snapshot.
func (v view) FindAward(id domain.AwardID) (Award, bool) {
	a, ok := v.state.awards[id]
	if !ok {
		return Award{}, false
	}
	return cloneAward(a), true
}

// FindSubmission retrieves a submission by ID from the snapshot.
func (v view) FindSubmission(id domain.SubmissionID) (Submission, bool) {
	s, ok := v.state.submissions[id]
	if !ok {
		return Submission{}, false
	}
	return cloneSubmission(s), true
}

// Read helpers -----------------------------------------------------------

// GetMember retrieves a member by identity from committed state.
func (s *Store) GetMember(id domain.AccountID) (Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.state.members[id]
	if !ok {
		return Member{}, false
	}
	return cloneMember(m), true
}

// GetHackathon retrieves a hackathon by ID from committed state.
func (s *Store) GetHackathon(id domain.HackathonID) (Hackathon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.state.hackathons[id]
	if !ok {
		return Hackathon{}, false
	}
	return cloneHackathon(h), true
}

// GetCategory retrieves a category by ID from committed state.
func (s *Store) GetCategory(id domain.CategoryID) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.categories[id]
	if !ok {
		return Category{}, false
	}
	return cloneCategory(c), true
}

// GetAward retrieves an award by ID from committed state.
func (s *Store) GetAward(id domain.AwardID) (Award, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.awards[id]
	if !ok {
		return Award{}, false
	}
	return cloneAward(a), true
}

// GetSubmission retrieves a submission by ID from committed state.
func (s *Store) GetSubmission(id domain.SubmissionID) (Submission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.state.submissions[id]
	if !ok {
		return Submission{}, false
	}
	return cloneSubmission(sub), true
}

// ListMembers returns all members from committed state, ordered by identity.
func (s *Store) ListMembers() []Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListMembers()
}

// ListHackathons returns all hackathons from committed state, ordered by identifier.
func (s *Store) ListHackathons() []Hackathon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListHackathons()
}

// ExportState clones the committed state, counters included, for snapshotting.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cloned := s.state.clone()
	return Snapshot{
		Members:          cloned.members,
		Hackathons:       cloned.hackathons,
		Categories:       cloned.categories,
		Awards:           cloned.awards,
		Submissions:      cloned.submissions,
		NextHackathonID:  cloned.nextHackathonID,
		NextCategoryID:   cloned.nextCategoryID,
		NextAwardID:      cloned.nextAwardID,
		NextSubmissionID: cloned.nextSubmissionID,
	}
}

// ImportState replaces the committed state with the supplied snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := newMemoryState()
	for k, v := range snapshot.Members {
		state.members[k] = cloneMember(v)
	}
	for k, v := range snapshot.Hackathons {
		state.hackathons[k] = cloneHackathon(v)
	}
	for k, v := range snapshot.Categories {
		state.categories[k] = cloneCategory(v)
	}
	for k, v := range snapshot.Awards {
		state.awards[k] = cloneAward(v)
	}
	for k, v := range snapshot.Submissions {
		state.submissions[k] = cloneSubmission(v)
	}
	state.nextHackathonID = snapshot.NextHackathonID
	state.nextCategoryID = snapshot.NextCategoryID
	state.nextAwardID = snapshot.NextAwardID
	state.nextSubmissionID = snapshot.NextSubmissionID
	s.state = state
}
