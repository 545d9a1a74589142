package models

import "github.com/dave-sbs/voting-app-sub000/storage"

type MemberCreateRequest struct {
	Name        string `json:"name"`
	StoreNumber string `json:"storeNumber"`
}

type MemberRemoveRequest struct {
	Name        string `json:"name"`
	StoreNumber string `json:"storeNumber"`
}

type BoardStatusRequest struct {
	Name          string `json:"name"`
	StoreNumber   string `json:"storeNumber"`
	IsBoardMember *bool  `json:"isBoardMember"`
}

type MemberResponse struct {
	MemberID      string   `json:"memberId"`
	Name          string   `json:"name"`
	StoreNumbers  []string `json:"storeNumbers"`
	IsBoardMember bool     `json:"isBoardMember"`
}

func TransformMemberFromStorage(m *storage.Member) MemberResponse {
	return MemberResponse{
		MemberID:      m.MemberID,
		Name:          m.MemberName,
		StoreNumbers:  m.StoreNumbers,
		IsBoardMember: m.IsBoardMember,
	}
}
