package core

import (
	"context"
	"fmt"
	"strconv"

	"hackledger/internal/infra/persistence/memory"
	"hackledger/pkg/domain"
)

// Service exposes the public mutation surface of the ledger. Every
// operation runs inside one transaction: guard failures, rule violations
// and ledger errors abort the whole call with no partial state change.
type Service struct {
	store   PersistentStore
	ledger  Ledger
	logger  Logger
	metrics MetricsRecorder
	audit   AuditRecorder
	clock   Clock
}

// ServiceOption customizes service construction.
type ServiceOption func(*Service)

// WithLogger overrides the default no-op logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder attaches an operation metrics recorder.
func WithMetricsRecorder(metrics MetricsRecorder) ServiceOption {
	return func(s *Service) { s.metrics = metrics }
}

// WithAuditRecorder attaches an audit trail recorder.
func WithAuditRecorder(audit AuditRecorder) ServiceOption {
	return func(s *Service) { s.audit = audit }
}

// WithClock overrides the time source used for audit timestamps.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLedger overrides the value-transfer boundary.
func WithLedger(ledger Ledger) ServiceOption {
	return func(s *Service) {
		if ledger != nil {
			s.ledger = ledger
		}
	}
}

// NewService constructs a service backed by the supplied store and ledger.
func NewService(store PersistentStore, ledger Ledger, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		ledger: ledger,
		logger: noopLogger{},
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service with an in-memory store bound to the
// given rules engine. A nil engine defaults to the built-in policy set.
func NewInMemoryService(engine *RulesEngine, ledger Ledger, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), ledger, opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore { return s.store }

// MemberInput carries the caller-supplied fields of a profile.
type MemberInput struct {
	Name  string  `json:"name"`
	Image *string `json:"image,omitempty"`
	Bio   *string `json:"bio,omitempty"`
}

// SubmissionInput carries the caller-supplied fields of a project entry.
type SubmissionInput struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Links       []string     `json:"link"`
	Categories  []CategoryID `json:"categories"`
	Members     []AccountID  `json:"members"`
	Time        Timestamp    `json:"time"`
}

func (s *Service) caller(ctx context.Context) (AccountID, error) {
	id, ok := domain.CallerFrom(ctx)
	if !ok {
		return "", domain.UnauthorizedError{Reason: "no caller identity"}
	}
	return id, nil
}

// run wraps a transactional operation with logging, metrics and audit. The
// action is read through a pointer after the closure runs, like entityID, so
// operations that branch between create and update report what they did.
func (s *Service) run(ctx context.Context, op string, entity EntityType, action *Action, entityID *string, fn func(tx Transaction) error) (Result, error) {
	start := s.clock.Now()
	res, err := s.store.RunInTransaction(ctx, fn)
	duration := s.clock.Now().Sub(start)
	caller, _ := domain.CallerFrom(ctx)
	if s.metrics != nil {
		s.metrics.Observe(ctx, op, err == nil, duration)
	}
	if s.audit != nil {
		entry := AuditEntry{
			Operation: op,
			Entity:    entity,
			Action:    *action,
			Caller:    caller,
			Status:    AuditStatusSuccess,
			Duration:  duration,
			Timestamp: start,
		}
		if entityID != nil {
			entry.EntityID = *entityID
		}
		if err != nil {
			entry.Status = AuditStatusError
			entry.Error = err.Error()
		}
		s.audit.Record(ctx, entry)
	}
	if err != nil {
		s.logger.Warn("operation aborted", "operation", op, "caller", caller, "error", err)
		return res, err
	}
	s.logger.Info("operation committed", "operation", op, "caller", caller, "violations", len(res.Violations))
	return res, nil
}

func formatID(id uint64) string { return strconv.FormatUint(id, 10) }

// RegisterMember creates the caller's profile, or refreshes the profile
// fields of an existing one. The joined and created hackathon lists survive
// re-registration.
func (s *Service) RegisterMember(ctx context.Context, input MemberInput) (Member, Result, error) {
	var registered Member
	var entityID string
	id, err := s.caller(ctx)
	if err != nil {
		return Member{}, Result{}, err
	}
	entityID = string(id)
	action := ActionCreate
	res, err := s.run(ctx, "register_member", EntityMember, &action, &entityID, func(tx Transaction) error {
		if _, exists := tx.FindMember(id); exists {
			action = ActionUpdate
			var uerr error
			registered, uerr = tx.UpdateMember(id, func(m *Member) error {
				m.Name = input.Name
				m.Image = input.Image
				m.Bio = input.Bio
				return nil
			})
			return uerr
		}
		var cerr error
		registered, cerr = tx.CreateMember(Member{
			ID:    id,
			Name:  input.Name,
			Image: input.Image,
			Bio:   input.Bio,
		})
		return cerr
	})
	return registered, res, err
}

// UpdateMember applies the non-nil profile fields to the caller's record.
func (s *Service) UpdateMember(ctx context.Context, name, image, bio *string) (Member, Result, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return Member{}, Result{}, err
	}
	entityID := string(id)
	action := ActionUpdate
	var updated Member
	res, err := s.run(ctx, "update_member", EntityMember, &action, &entityID, func(tx Transaction) error {
		if _, ok := tx.FindMember(id); !ok {
			return domain.NotFoundError{Entity: EntityMember, Key: string(id)}
		}
		var uerr error
		updated, uerr = tx.UpdateMember(id, func(m *Member) error {
			if name != nil {
				m.Name = *name
			}
			if image != nil {
				m.Image = image
			}
			if bio != nil {
				m.Bio = bio
			}
			return nil
		})
		return uerr
	})
	return updated, res, err
}

// CreateHackathon persists a new hackathon owned by the caller and records
// it on the caller's created list.
func (s *Service) CreateHackathon(ctx context.Context, payload HackathonPayload) (Hackathon, Result, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return Hackathon{}, Result{}, err
	}
	var created Hackathon
	var entityID string
	action := ActionCreate
	res, err := s.run(ctx, "create_hackathon", EntityHackathon, &action, &entityID, func(tx Transaction) error {
		if _, ok := tx.FindMember(id); !ok {
			return domain.NotFoundError{Entity: EntityMember, Key: string(id)}
		}
		var cerr error
		created, cerr = tx.CreateHackathon(Hackathon{
			Owner:       id,
			Name:        payload.Name,
			Description: payload.Description,
			Image:       payload.Image,
			Tags:        payload.Tags,
			Start:       payload.Start,
			End:         payload.End,
		})
		if cerr != nil {
			return cerr
		}
		entityID = formatID(uint64(created.ID))
		_, cerr = tx.UpdateMember(id, func(m *Member) error {
			m.CreatedHackathons = append(m.CreatedHackathons, created.ID)
			return nil
		})
		return cerr
	})
	return created, res, err
}

// CreateCategory persists a category under the given hackathon. Only the
// hackathon owner may create categories.
func (s *Service) CreateCategory(ctx context.Context, hackathonID HackathonID, name string) (Category, Result, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return Category{}, Result{}, err
	}
	var created Category
	var entityID string
	action := ActionCreate
	res, err := s.run(ctx, "create_category", EntityCategory, &action, &entityID, func(tx Transaction) error {
		hackathon, ok := tx.FindHackathon(hackathonID)
		if !ok {
			return domain.NotFoundError{Entity: EntityHackathon, Key: formatID(uint64(hackathonID))}
		}
		if hackathon.Owner != id {
			return domain.UnauthorizedError{Caller: id, Reason: "not the hackathon owner"}
		}
		var cerr error
		created, cerr = tx.CreateCategory(Category{Name: name})
		if cerr != nil {
			return cerr
		}
		entityID = formatID(uint64(created.ID))
		_, cerr = tx.UpdateHackathon(hackathonID, func(h *Hackathon) error {
			h.Categories = append(h.Categories, created.ID)
			return nil
		})
		return cerr
	})
	return created, res, err
}

// CreateAward persists an award under the given category. The decimal total
// is scaled to fixed-point units, truncating toward zero.
func (s *Service) CreateAward(ctx context.Context, hackathonID HackathonID, categoryID CategoryID, name string, total float64) (Award, Result, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return Award{}, Result{}, err
	}
	var created Award
	var entityID string
	action := ActionCreate
	res, err := s.run(ctx, "create_award", EntityAward, &action, &entityID, func(tx Transaction) error {
		hackathon, ok := tx.FindHackathon(hackathonID)
		if !ok {
			return domain.NotFoundError{Entity: EntityHackathon, Key: formatID(uint64(hackathonID))}
		}
		if hackathon.Owner != id {
			return domain.UnauthorizedError{Caller: id, Reason: "not the hackathon owner"}
		}
		if _, ok := tx.FindCategory(categoryID); !ok {
			return domain.NotFoundError{Entity: EntityCategory, Key: formatID(uint64(categoryID))}
		}
		price, perr := domain.ScalePrize(total)
		if perr != nil {
			return domain.InvalidInputError{Reason: perr.Error()}
		}
		var cerr error
		created, cerr = tx.CreateAward(Award{Name: name, Price: price})
		if cerr != nil {
			return cerr
		}
		entityID = formatID(uint64(created.ID))
		_, cerr = tx.UpdateCategory(categoryID, func(c *Category) error {
			c.Awards = append(c.Awards, created.ID)
			return nil
		})
		return cerr
	})
	return created, res, err
}

// JoinHackathon adds the caller to the hackathon's participant list and the
// hackathon to the caller's joined list. Owners cannot join their own
// hackathon and a member joins any hackathon at most once.
func (s *Service) JoinHackathon(ctx context.Context, hackathonID HackathonID) (Hackathon, Result, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return Hackathon{}, Result{}, err
	}
	entityID := formatID(uint64(hackathonID))
	action := ActionUpdate
	var joined Hackathon
	res, err := s.run(ctx, "join_hackathon", EntityHackathon, &action, &entityID, func(tx Transaction) error {
		if _, ok := tx.FindMember(id); !ok {
			return domain.UnauthorizedError{Caller: id, Reason: "not a member"}
		}
		hackathon, ok := tx.FindHackathon(hackathonID)
		if !ok {
			return domain.NotFoundError{Entity: EntityHackathon, Key: entityID}
		}
		if hackathon.Owner == id {
			return domain.UnauthorizedError{Caller: id, Reason: "cannot join own hackathon"}
		}
		for _, participant := range hackathon.Participants {
			if participant == id {
				return domain.InvalidInputError{Reason: fmt.Sprintf("member %s already joined hackathon %d", id, hackathonID)}
			}
		}
		var uerr error
		joined, uerr = tx.UpdateHackathon(hackathonID, func(h *Hackathon) error {
			h.Participants = append(h.Participants, id)
			return nil
		})
		if uerr != nil {
			return uerr
		}
		_, uerr = tx.UpdateMember(id, func(m *Member) error {
			m.JoinedHackathons = append(m.JoinedHackathons, hackathonID)
			return nil
		})
		return uerr
	})
	return joined, res, err
}

// SubmitProject persists an immutable project entry under the hackathon.
// Every listed member must be registered and a current participant; one
// invalid member aborts the whole submission.
func (s *Service) SubmitProject(ctx context.Context, hackathonID HackathonID, input SubmissionInput) (Submission, Result, error) {
	var created Submission
	var entityID string
	action := ActionCreate
	res, err := s.run(ctx, "submit_project", EntitySubmission, &action, &entityID, func(tx Transaction) error {
		hackathon, ok := tx.FindHackathon(hackathonID)
		if !ok {
			return domain.NotFoundError{Entity: EntityHackathon, Key: formatID(uint64(hackathonID))}
		}
		for _, member := range input.Members {
			if _, ok := tx.FindMember(member); !ok {
				return domain.InvalidInputError{Reason: fmt.Sprintf("submission member %s is not a registered member", member)}
			}
			if !containsAccount(hackathon.Participants, member) {
				return domain.InvalidInputError{Reason: fmt.Sprintf("submission member %s did not join hackathon %d", member, hackathonID)}
			}
		}
		var cerr error
		created, cerr = tx.CreateSubmission(Submission{
			Name:        input.Name,
			Description: input.Description,
			Image:       input.Image,
			Time:        input.Time,
			Links:       input.Links,
			Categories:  input.Categories,
			Members:     input.Members,
		})
		if cerr != nil {
			return cerr
		}
		entityID = formatID(uint64(created.ID))
		_, cerr = tx.UpdateHackathon(hackathonID, func(h *Hackathon) error {
			h.Submissions = append(h.Submissions, created.ID)
			return nil
		})
		return cerr
	})
	return created, res, err
}

// JudgeWinner records the winning submission on an open award. Guard order
// matches the historical call contract: submission membership first, then
// ownership, then the category and award containment checks, then the
// open-state check.
func (s *Service) JudgeWinner(ctx context.Context, hackathonID HackathonID, categoryID CategoryID, awardID AwardID, submissionID SubmissionID) (Award, Result, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return Award{}, Result{}, err
	}
	entityID := formatID(uint64(awardID))
	action := ActionUpdate
	var judged Award
	res, err := s.run(ctx, "judge_winner", EntityAward, &action, &entityID, func(tx Transaction) error {
		hackathon, ok := tx.FindHackathon(hackathonID)
		if !ok {
			return domain.NotFoundError{Entity: EntityHackathon, Key: formatID(uint64(hackathonID))}
		}
		submission, ok := tx.FindSubmission(submissionID)
		if !ok {
			return domain.NotFoundError{Entity: EntitySubmission, Key: formatID(uint64(submissionID))}
		}
		for _, winner := range submission.Members {
			if _, ok := tx.FindMember(winner); !ok {
				return domain.InvalidInputError{Reason: fmt.Sprintf("winning member %s is not a registered member", winner)}
			}
			if !containsAccount(hackathon.Participants, winner) {
				return domain.InvalidInputError{Reason: fmt.Sprintf("winning member %s did not join hackathon %d", winner, hackathonID)}
			}
		}
		if hackathon.Owner != id {
			return domain.UnauthorizedError{Caller: id, Reason: "not the hackathon owner"}
		}
		if !containsCategory(hackathon.Categories, categoryID) {
			return domain.InvalidInputError{Reason: fmt.Sprintf("category %d is not in hackathon %d", categoryID, hackathonID)}
		}
		category, ok := tx.FindCategory(categoryID)
		if !ok {
			return domain.NotFoundError{Entity: EntityCategory, Key: formatID(uint64(categoryID))}
		}
		if !containsAward(category.Awards, awardID) {
			return domain.InvalidInputError{Reason: fmt.Sprintf("award %d is not in category %d", awardID, categoryID)}
		}
		award, ok := tx.FindAward(awardID)
		if !ok {
			return domain.NotFoundError{Entity: EntityAward, Key: entityID}
		}
		if award.Winner != nil {
			return domain.InvalidStateError{Entity: EntityAward, Key: entityID, Reason: "winner already judged"}
		}
		var uerr error
		judged, uerr = tx.UpdateAward(awardID, func(a *Award) error {
			winner := submissionID
			a.Winner = &winner
			return nil
		})
		return uerr
	})
	return judged, res, err
}

// AwardWinner pays out a judged award. The attached amount must equal the
// stored prize exactly; the prize moves to the first member of the winning
// submission and is_awarded flips only after the transfer succeeds. A
// failed transfer aborts the transaction leaving the award judged, so a
// retry is safe and a repeated payout fails the is_awarded guard.
func (s *Service) AwardWinner(ctx context.Context, hackathonID HackathonID, categoryID CategoryID, awardID AwardID, attached Amount) (Award, Result, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return Award{}, Result{}, err
	}
	entityID := formatID(uint64(awardID))
	action := ActionUpdate
	var paid Award
	res, err := s.run(ctx, "award_winner", EntityAward, &action, &entityID, func(tx Transaction) error {
		hackathon, ok := tx.FindHackathon(hackathonID)
		if !ok {
			return domain.NotFoundError{Entity: EntityHackathon, Key: formatID(uint64(hackathonID))}
		}
		if hackathon.Owner != id {
			return domain.UnauthorizedError{Caller: id, Reason: "not the hackathon owner"}
		}
		if !containsCategory(hackathon.Categories, categoryID) {
			return domain.InvalidInputError{Reason: fmt.Sprintf("category %d is not in hackathon %d", categoryID, hackathonID)}
		}
		category, ok := tx.FindCategory(categoryID)
		if !ok {
			return domain.NotFoundError{Entity: EntityCategory, Key: formatID(uint64(categoryID))}
		}
		if !containsAward(category.Awards, awardID) {
			return domain.InvalidInputError{Reason: fmt.Sprintf("award %d is not in category %d", awardID, categoryID)}
		}
		award, ok := tx.FindAward(awardID)
		if !ok {
			return domain.NotFoundError{Entity: EntityAward, Key: entityID}
		}
		if award.IsAwarded {
			return domain.InvalidStateError{Entity: EntityAward, Key: entityID, Reason: "award already paid"}
		}
		if award.Winner == nil {
			return domain.InvalidStateError{Entity: EntityAward, Key: entityID, Reason: "award has no winner to pay"}
		}
		if !attached.Equal(award.Price) {
			return domain.PaymentMismatchError{Attached: attached, Price: award.Price}
		}
		submission, ok := tx.FindSubmission(*award.Winner)
		if !ok {
			return domain.NotFoundError{Entity: EntitySubmission, Key: formatID(uint64(*award.Winner))}
		}
		if len(submission.Members) == 0 {
			return domain.InvalidStateError{Entity: EntitySubmission, Key: formatID(uint64(submission.ID)), Reason: "winning submission has no recipient"}
		}
		if s.ledger == nil {
			return fmt.Errorf("no ledger configured for payouts")
		}
		if terr := s.ledger.Transfer(ctx, submission.Members[0], award.Price); terr != nil {
			return fmt.Errorf("transfer prize: %w", terr)
		}
		var uerr error
		paid, uerr = tx.UpdateAward(awardID, func(a *Award) error {
			a.IsAwarded = true
			return nil
		})
		return uerr
	})
	return paid, res, err
}

func containsAccount(list []AccountID, id AccountID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func containsCategory(list []CategoryID, id CategoryID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func containsAward(list []AwardID, id AwardID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
