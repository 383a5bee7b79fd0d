package domain

// Read-side response shapes assembled from the normalized collections.
// They denormalize for presentation and are never written back.

// MemberView is a member profile without its hackathon lists.
type MemberView struct {
	ID    AccountID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
	Bio   *string   `json:"bio,omitempty"`
}

// AwardView is an award with its winning submission resolved, when judged.
type AwardView struct {
	ID        AwardID         `json:"id"`
	Name      string          `json:"name"`
	Price     Amount          `json:"price"`
	Winner    *SubmissionView `json:"winner,omitempty"`
	IsAwarded bool            `json:"is_awarded"`
}

// CategoryView is a category with its awards resolved.
type CategoryView struct {
	ID     CategoryID  `json:"id"`
	Name   string      `json:"name"`
	Awards []AwardView `json:"awards"`
}

// SubmissionView is a submission with its member and category joins resolved.
type SubmissionView struct {
	ID          SubmissionID `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Time        Timestamp    `json:"time"`
	Links       []string     `json:"link"`
	Categories  []Category   `json:"categories"`
	Members     []MemberView `json:"members"`
}

// HackathonDetail gathers the full participant, category and submission
// views reachable from one hackathon's adjacency lists.
type HackathonDetail struct {
	Participants []MemberView     `json:"participants"`
	Submissions  []SubmissionView `json:"submissions"`
	Categories   []CategoryView   `json:"categories"`
}

// HackathonWithTotalPrize pairs a hackathon with the sum of every award
// reachable through its category list.
type HackathonWithTotalPrize struct {
	Hackathon  Hackathon `json:"hackathon"`
	TotalPrize Amount    `json:"total_prize"`
}

// MemberDetail is a member profile with every created and joined hackathon
// resolved into a (hackathon, total prize) pair.
type MemberDetail struct {
	ID                AccountID                 `json:"id"`
	Name              string                    `json:"name"`
	Image             *string                   `json:"image,omitempty"`
	Bio               *string                   `json:"bio,omitempty"`
	JoinedHackathons  []HackathonWithTotalPrize `json:"joined_hackathons"`
	CreatedHackathons []HackathonWithTotalPrize `json:"created_hackathons"`
}
