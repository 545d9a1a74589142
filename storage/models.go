package storage

import "time"

type Event struct {
	Category  string    `dynamodbav:"PK"`
	SortKey   string    `dynamodbav:"SK"` // fixed-width event date so Query order is stable
	EventID   string    `dynamodbav:"EventID"`
	EventCode string    `dynamodbav:"EventCode"`
	EventDate time.Time `dynamodbav:"EventDate"`
	CreatedBy string    `dynamodbav:"CreatedBy"`
	IsOpen    bool      `dynamodbav:"IsOpen"`
}

type Member struct {
	MemberID      string   `dynamodbav:"PK"`
	MemberName    string   `dynamodbav:"MemberName"`
	StoreNumbers  []string `dynamodbav:"StoreNumbers,stringset"`
	IsBoardMember bool     `dynamodbav:"IsBoardMember"`
}

// StoreNumberRecord maps a store number back to its owning member. One row
// per store number, so the conditional put on PK is the uniqueness guard.
type StoreNumberRecord struct {
	StoreNumber string `dynamodbav:"PK"`
	MemberID    string `dynamodbav:"MemberID"`
	MemberName  string `dynamodbav:"MemberName"`
}

type CheckIn struct {
	EventID            string    `dynamodbav:"PK"`
	MemberID           string    `dynamodbav:"SK"`
	MemberName         string    `dynamodbav:"MemberName"`
	CheckInTime        time.Time `dynamodbav:"CheckInTime"`
	UpdatedCheckInTime time.Time `dynamodbav:"UpdatedCheckInTime"`
	HasVoted           bool      `dynamodbav:"HasVoted"`
}

type Candidate struct {
	MemberID       string `dynamodbav:"PK"`
	MemberName     string `dynamodbav:"MemberName"`
	ProfilePicture string `dynamodbav:"ProfilePicture"`
	VoteCount      int    `dynamodbav:"VoteCount"`
}

type SelectionPolicy struct {
	Key       string `dynamodbav:"PK"`
	MinChoice int    `dynamodbav:"MinChoice"`
	MaxChoice int    `dynamodbav:"MaxChoice"`
}
