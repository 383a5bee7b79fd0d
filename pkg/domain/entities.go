// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by hackledger.
package domain

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityMember identifies a member profile record.
	EntityMember EntityType = "member"
	// EntityHackathon identifies a hackathon record.
	EntityHackathon EntityType = "hackathon"
	// EntityCategory identifies a prize category record.
	EntityCategory EntityType = "category"
	// EntityAward identifies an award record.
	EntityAward EntityType = "award"
	// EntitySubmission identifies a project submission record.
	EntitySubmission EntityType = "submission"
)

// AccountID is the identity of a caller. Members are keyed by it.
type AccountID string

// Numeric identifiers handed out by the per-entity monotonic counters.
// An identifier is never reused once allocated.
type (
	// HackathonID identifies a hackathon.
	HackathonID uint64
	// CategoryID identifies a category.
	CategoryID uint64
	// AwardID identifies an award.
	AwardID uint64
	// SubmissionID identifies a submission.
	SubmissionID uint64
)

// Timestamp is a caller-supplied monotonic timestamp in nanoseconds.
// The core never generates timestamps for submissions.
type Timestamp uint64

// Member is an identity-keyed profile. The identity string is both the
// store key and the embedded ID field; the two are always equal.
type Member struct {
	ID                AccountID     `json:"id"`
	Name              string        `json:"name"`
	Image             *string       `json:"image,omitempty"`
	Bio               *string       `json:"bio,omitempty"`
	JoinedHackathons  []HackathonID `json:"joined_hackathons"`
	CreatedHackathons []HackathonID `json:"created_hackathons"`
}

// Hackathon is the root aggregate. Its three list fields are append-only
// adjacency lists; the owner is fixed at creation and never transferred.
type Hackathon struct {
	ID           HackathonID    `json:"id"`
	Owner        AccountID      `json:"owner"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	Start        Timestamp      `json:"start"`
	End          Timestamp      `json:"end"`
	Tags         []string       `json:"tags"`
	Participants []AccountID    `json:"participants_list"`
	Submissions  []SubmissionID `json:"submissions_list"`
	Categories   []CategoryID   `json:"categories_list"`
}

// HackathonPayload carries the caller-supplied fields of a new hackathon.
type HackathonPayload struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	Start       Timestamp `json:"start"`
	End         Timestamp `json:"end"`
}

// Category groups awards within a single hackathon. The parent relationship
// is one-directional: the hackathon lists its categories, the category does
// not point back.
type Category struct {
	ID     CategoryID `json:"id"`
	Name   string     `json:"name"`
	Awards []AwardID  `json:"awards"`
}

// Award is a prize with a three-state lifecycle: open (no winner), judged
// (winner set), paid (winner set and IsAwarded true). Winner is set at most
// once and IsAwarded flips at most once, only after Winner is set.
type Award struct {
	ID        AwardID       `json:"id"`
	Name      string        `json:"name"`
	Price     Amount        `json:"price"`
	Winner    *SubmissionID `json:"winner,omitempty"`
	IsAwarded bool          `json:"is_awarded"`
}

// Submission is an immutable project entry. The first entry of Members is
// the designated prize recipient.
type Submission struct {
	ID          SubmissionID `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Time        Timestamp    `json:"time"`
	Links       []string     `json:"link"`
	Categories  []CategoryID `json:"categories"`
	Members     []AccountID  `json:"members"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate the mutations captured in the audit trail.
// The ledger is append-mostly: records are created and updated, never deleted.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
