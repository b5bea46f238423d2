package entities

import "time"

// ProfileStatusMatched is the profiles.profile_status value for a pair where
// both parties accepted the introduction.
const ProfileStatusMatched = "female-yes_male-yes_msg-match"

// NudgeStatus is the closed set of automated follow-up stages a matched pair
// can be in. Statuses outside this set parse to NudgeUnknown and are handled
// explicitly instead of falling through a string lookup.
type NudgeStatus int

const (
	NudgeUnknown NudgeStatus = iota
	NudgeConnectionCheckIn
	NudgeFeedbackLoop
)

func ParseNudgeStatus(s string) NudgeStatus {
	switch s {
	case "connection_check_in":
		return NudgeConnectionCheckIn
	case "feedback_loop":
		return NudgeFeedbackLoop
	default:
		return NudgeUnknown
	}
}

func (n NudgeStatus) String() string {
	switch n {
	case NudgeConnectionCheckIn:
		return "connection_check_in"
	case NudgeFeedbackLoop:
		return "feedback_loop"
	default:
		return "unknown"
	}
}

// MatchProfile mirrors a row in profiles. Read-only here except for the
// two-way flags, which the conversation engine may flip to false.
type MatchProfile struct {
	ID           string
	FemaleUserID string
	MaleUserID   string
	Status       string

	FemaleNudge NudgeStatus
	MaleNudge   NudgeStatus

	FemaleAllowTwoWay bool
	MaleAllowTwoWay   bool

	CreatedAt time.Time
}

// ProfileParty is one side of a match profile resolved for a given account.
type ProfileParty struct {
	UserID      string
	OtherUserID string
	Nudge       NudgeStatus
	AllowTwoWay bool
}

// Party resolves which side of the profile the given account is on.
// The second return is false when the account is on neither side.
func (p *MatchProfile) Party(accountID string) (ProfileParty, bool) {
	switch accountID {
	case p.FemaleUserID:
		return ProfileParty{
			UserID:      p.FemaleUserID,
			OtherUserID: p.MaleUserID,
			Nudge:       p.FemaleNudge,
			AllowTwoWay: p.FemaleAllowTwoWay,
		}, true
	case p.MaleUserID:
		return ProfileParty{
			UserID:      p.MaleUserID,
			OtherUserID: p.FemaleUserID,
			Nudge:       p.MaleNudge,
			AllowTwoWay: p.MaleAllowTwoWay,
		}, true
	}
	return ProfileParty{}, false
}
