package models

import "github.com/dave-sbs/voting-app-sub000/storage"

type PolicyValueRequest struct {
	Value int `json:"value"`
}

type PolicyResponse struct {
	MinChoice int `json:"minChoice"`
	MaxChoice int `json:"maxChoice"`
}

func TransformPolicyFromStorage(p *storage.SelectionPolicy) PolicyResponse {
	return PolicyResponse{
		MinChoice: p.MinChoice,
		MaxChoice: p.MaxChoice,
	}
}
