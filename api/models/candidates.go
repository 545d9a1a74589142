package models

import "github.com/dave-sbs/voting-app-sub000/storage"

type NominateCandidateRequest struct {
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

type CandidateResponse struct {
	MemberID       string `json:"memberId"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	VoteCount      int    `json:"voteCount"`
}

type MediaUploadResponse struct {
	URL string `json:"url"`
}

func TransformCandidateFromStorage(c *storage.Candidate) CandidateResponse {
	return CandidateResponse{
		MemberID:       c.MemberID,
		Name:           c.MemberName,
		ProfilePicture: c.ProfilePicture,
		VoteCount:      c.VoteCount,
	}
}
