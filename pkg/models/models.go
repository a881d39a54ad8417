package models

import (
	"time"
)

type CardStatus string

const (
	StatusPending  CardStatus = "pending"
	StatusAccepted CardStatus = "accepted"
	StatusDeclined CardStatus = "declined"
)

func (s CardStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

type CardPrice struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type GiftCard struct {
	Code      string     `json:"code"`
	Status    CardStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Price     *CardPrice `json:"price,omitempty"`
}

type PriceRecord struct {
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Stats struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Pending  int `json:"pending"`
}

// Credentials are resubmitted in the body of every admin request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ValidateRequest struct {
	Code string `json:"code" binding:"required"`
}

type SetGlobalPriceRequest struct {
	Credentials
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
}

type SetCardStatusRequest struct {
	Credentials
	Code   string `json:"code" binding:"required"`
	Status string `json:"status"`
}

type SetCardPriceRequest struct {
	Credentials
	Code   string   `json:"code" binding:"required"`
	Amount *float64 `json:"amount"`
}

type ValidateResponse struct {
	Success     bool         `json:"success"`
	Card        GiftCard     `json:"card"`
	GlobalPrice *PriceRecord `json:"globalPrice"`
}

type CardResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Card    GiftCard `json:"card"`
}

type PriceResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Price   *PriceRecord `json:"price"`
}

type CardListResponse struct {
	Success bool       `json:"success"`
	Cards   []GiftCard `json:"cards"`
}

type StatsResponse struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
