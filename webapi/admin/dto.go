package admin

// OpenAccountRequest is the request body for opening a member account.
type OpenAccountRequest struct {
	OwnerID string `json:"owner_id" validate:"required,uuid"`
}

// IssueCodeRequest is the request body for minting a redeem code.
type IssueCodeRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	TTL    string `json:"ttl,omitempty"` // Go duration string; empty uses the configured default
}
