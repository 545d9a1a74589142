package models

type EventCategory string

const (
	CategoryGeneralMeeting EventCategory = "GENERAL-MEETING"
	CategoryBoardMeeting   EventCategory = "BOARD-MEETING"
	CategoryAuto           EventCategory = "AUTO"
)

var ValidCategories = map[EventCategory]string{
	CategoryGeneralMeeting: "GENERAL-MEETING",
	CategoryBoardMeeting:   "BOARD-MEETING",
	CategoryAuto:           "AUTO",
}

var Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
