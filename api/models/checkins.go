package models

import (
	"time"

	"github.com/dave-sbs/voting-app-sub000/storage"
)

// CheckInRequest identifies the member by exactly one of id, store number or
// exact name; the controller resolves in that order.
type CheckInRequest struct {
	MemberID    string `json:"memberId,omitempty"`
	StoreNumber string `json:"storeNumber,omitempty"`
	Name        string `json:"name,omitempty"`
}

type CheckInResponse struct {
	EventID            string    `json:"eventId"`
	MemberID           string    `json:"memberId"`
	MemberName         string    `json:"memberName"`
	CheckInTime        time.Time `json:"checkInTime"`
	UpdatedCheckInTime time.Time `json:"updatedCheckInTime"`
	HasVoted           bool      `json:"hasVoted"`
	IsBoardMember      bool      `json:"isBoardMember"`
	Returning          bool      `json:"returning"`
}

func TransformCheckInFromStorage(ci *storage.CheckIn, isBoardMember, returning bool) CheckInResponse {
	return CheckInResponse{
		EventID:            ci.EventID,
		MemberID:           ci.MemberID,
		MemberName:         ci.MemberName,
		CheckInTime:        ci.CheckInTime,
		UpdatedCheckInTime: ci.UpdatedCheckInTime,
		HasVoted:           ci.HasVoted,
		IsBoardMember:      isBoardMember,
		Returning:          returning,
	}
}
