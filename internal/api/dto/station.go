package dto

import "ev-route-service/internal/domain"

type ReserveRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Station keeps the persisted record shape.
type ReserveResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Station domain.Station `json:"station"`
}
