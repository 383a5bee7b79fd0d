package domain

import "context"

// Transaction exposes the domain operations that a persistence
// implementation must support within an atomic scope. Create operations on
// counter-keyed entities allocate the next identifier; the allocation is
// discarded with the rest of the transaction state if the scope aborts, so
// a failed creation never advances a counter.
type Transaction interface {
	Snapshot() TransactionView
	CreateMember(Member) (Member, error)
	UpdateMember(id AccountID, mutator func(*Member) error) (Member, error)
	CreateHackathon(Hackathon) (Hackathon, error)
	UpdateHackathon(id HackathonID, mutator func(*Hackathon) error) (Hackathon, error)
	CreateCategory(Category) (Category, error)
	UpdateCategory(id CategoryID, mutator func(*Category) error) (Category, error)
	CreateAward(Award) (Award, error)
	UpdateAward(id AwardID, mutator func(*Award) error) (Award, error)
	CreateSubmission(Submission) (Submission, error)
	FindMember(id AccountID) (Member, bool)
	FindHackathon(id HackathonID) (Hackathon, bool)
	FindCategory(id CategoryID) (Category, bool)
	FindAward(id AwardID) (Award, bool)
	FindSubmission(id SubmissionID) (Submission, bool)
}

// TransactionView provides read-only access to snapshot data for rule
// evaluation and read-side assembly.
type TransactionView interface {
	ListMembers() []Member
	ListHackathons() []Hackathon
	FindMember(id AccountID) (Member, bool)
	FindHackathon(id HackathonID) (Hackathon, bool)
	FindCategory(id CategoryID) (Category, bool)
	FindAward(id AwardID) (Award, bool)
	FindSubmission(id SubmissionID) (Submission, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It
// mirrors the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetMember(id AccountID) (Member, bool)
	GetHackathon(id HackathonID) (Hackathon, bool)
	GetCategory(id CategoryID) (Category, bool)
	GetAward(id AwardID) (Award, bool)
	GetSubmission(id SubmissionID) (Submission, bool)
	ListMembers() []Member
	ListHackathons() []Hackathon
}
