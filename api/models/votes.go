package models

type RegisterVoteRequest struct {
	EventID      string   `json:"eventId"`
	MemberID     string   `json:"memberId"`
	CandidateIDs []string `json:"candidateIds"`
}

type RegisterVoteResponse struct {
	Message string `json:"message"`
}
