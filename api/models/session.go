package models

type SessionResponse struct {
	Event      EventResponse       `json:"event"`
	CheckIns   []CheckInSummary    `json:"checkIns"`
	Candidates []CandidateResponse `json:"candidates"`
	Policy     PolicyResponse      `json:"policy"`
}

type CheckInSummary struct {
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
	HasVoted   bool   `json:"hasVoted"`
}

type EventSummaryResponse struct {
	Event        EventResponse       `json:"event"`
	Attendance   int                 `json:"attendance"`
	UniqueVoters int                 `json:"uniqueVoters"`
	Tally        []CandidateResponse `json:"tally"`
}
