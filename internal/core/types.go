package core

import "hackledger/pkg/domain"

type (
	EntityType         = domain.EntityType
	AccountID          = domain.AccountID
	HackathonID        = domain.HackathonID
	CategoryID         = domain.CategoryID
	AwardID            = domain.AwardID
	SubmissionID       = domain.SubmissionID
	Timestamp          = domain.Timestamp
	Amount             = domain.Amount
	Member             = domain.Member
	Hackathon          = domain.Hackathon
	HackathonPayload   = domain.HackathonPayload
	Category           = domain.Category
	Award              = domain.Award
	Submission         = domain.Submission
	Change             = domain.Change
	Action             = domain.Action
	Severity           = domain.Severity
	Violation          = domain.Violation
	Result             = domain.Result
	RuleViolationError = domain.RuleViolationError
	RulesEngine        = domain.RulesEngine
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
	PersistentStore    = domain.PersistentStore
	Ledger             = domain.Ledger
)

const (
	EntityMember     = domain.EntityMember
	EntityHackathon  = domain.EntityHackathon
	EntityCategory   = domain.EntityCategory
	EntityAward      = domain.EntityAward
	EntitySubmission = domain.EntitySubmission
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }
