package api

import (
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
)

// Records.

type Mint struct {
	Address   address.Address `json:"address"`
	Authority address.Address `json:"authority"`
	Decimals  uint8           `json:"decimals"`
	CreatedAt time.Time       `json:"created_at"`
}

type TokenAccount struct {
	Address   address.Address `json:"address"`
	Mint      address.Address `json:"mint"`
	Owner     address.Address `json:"owner"`
	Amount    int64           `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type Campaign struct {
	Address   address.Address `json:"address"`
	Owner     address.Address `json:"owner"`
	Mint      address.Address `json:"mint"`
	Vault     address.Address `json:"vault"`
	Label     string          `json:"label"`
	CreatedAt time.Time       `json:"created_at"`
}

type Backer struct {
	Address   address.Address `json:"address"`
	Campaign  address.Address `json:"campaign"`
	Backer    address.Address `json:"backer"`
	Amount    int64           `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Proposal struct {
	Address    address.Address `json:"address"`
	Campaign   address.Address `json:"campaign"`
	Vault      address.Address `json:"vault"`
	Recipient  address.Address `json:"recipient"`
	Amount     int64           `json:"amount"`
	Label      string          `json:"label"`
	EndsAt     time.Time       `json:"ends_at"`
	Upvotes    int64           `json:"upvotes"`
	Downvotes  int64           `json:"downvotes"`
	Status     string          `json:"status"`
	ReleasedAt *time.Time      `json:"released_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Vote struct {
	Address   address.Address `json:"address"`
	Proposal  address.Address `json:"proposal"`
	Voter     address.Address `json:"voter"`
	Upvote    bool            `json:"upvote"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Update struct {
	ID          string          `json:"id"`
	Campaign    address.Address `json:"campaign"`
	Author      address.Address `json:"author"`
	Label       string          `json:"label"`
	Sequence    int64           `json:"sequence"`
	StorageKey  string          `json:"storage_key,omitempty"`
	DownloadURL string          `json:"download_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Session service.

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type ChallengeRequest struct {
	Identity address.Address `json:"identity"`
}

type ChallengeResponse struct {
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Identity  address.Address `json:"identity"`
	Nonce     string          `json:"nonce"`
	Signature []byte          `json:"signature"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Vault service. The caller identity of mutating calls comes from the
// access token, never from the message.

type CreateMintRequest struct {
	Decimals uint8 `json:"decimals"`
}

type MintResponse struct {
	Mint Mint `json:"mint"`
}

type OpenTokenAccountRequest struct {
	Mint address.Address `json:"mint"`
}

type MintToRequest struct {
	Account address.Address `json:"account"`
	Amount  int64           `json:"amount"`
}

type GetTokenAccountRequest struct {
	Account address.Address `json:"account"`
}

type TokenAccountResponse struct {
	Account TokenAccount `json:"account"`
}

type CreateCampaignRequest struct {
	Mint  address.Address `json:"mint"`
	Label string          `json:"label"`
}

type GetCampaignRequest struct {
	Campaign address.Address `json:"campaign"`
}

type CampaignResponse struct {
	Campaign Campaign `json:"campaign"`
}

type GetVaultRequest struct {
	Campaign address.Address `json:"campaign"`
}

// DepositRequest moves Amount from the caller's token account From into the
// campaign vault. Vault and BackerRecord are optional claims.
type DepositRequest struct {
	Campaign     address.Address `json:"campaign"`
	From         address.Address `json:"from"`
	Amount       int64           `json:"amount"`
	Vault        address.Address `json:"vault"`
	BackerRecord address.Address `json:"backer_record"`
}

type DepositResponse struct {
	Backer       Backer `json:"backer"`
	VaultBalance int64  `json:"vault_balance"`
}

type GetBackerRequest struct {
	Campaign address.Address `json:"campaign"`
	Backer   address.Address `json:"backer"`
}

type BackerResponse struct {
	Backer Backer `json:"backer"`
}

type CreateProposalRequest struct {
	Campaign     address.Address `json:"campaign"`
	Vault        address.Address `json:"vault"`
	Amount       int64           `json:"amount"`
	Label        string          `json:"label"`
	Recipient    address.Address `json:"recipient"`
	DurationDays int64           `json:"duration_days"`
}

type GetProposalRequest struct {
	Proposal address.Address `json:"proposal"`
}

type ProposalResponse struct {
	Proposal Proposal `json:"proposal"`
}

type ListProposalsRequest struct {
	Campaign address.Address `json:"campaign"`
}

type ListProposalsResponse struct {
	Proposals []Proposal `json:"proposals"`
}

type VoteRequest struct {
	Proposal address.Address `json:"proposal"`
	Upvote   bool            `json:"upvote"`
}

type VoteResponse struct {
	Proposal Proposal `json:"proposal"`
	Vote     Vote     `json:"vote"`
	Flipped  bool     `json:"flipped"`
}

type GetVoteRequest struct {
	Proposal address.Address `json:"proposal"`
	Voter    address.Address `json:"voter"`
}

type VoteRecordResponse struct {
	Vote Vote `json:"vote"`
}

type CheckProposalRequest struct {
	Campaign  address.Address `json:"campaign"`
	Proposal  address.Address `json:"proposal"`
	Vault     address.Address `json:"vault"`
	Recipient address.Address `json:"recipient"`
}

type CheckProposalResponse struct {
	Approved     bool  `json:"approved"`
	Transferred  int64 `json:"transferred"`
	Upvotes      int64 `json:"upvotes"`
	Downvotes    int64 `json:"downvotes"`
	VaultBalance int64 `json:"vault_balance"`
}

type PostUpdateRequest struct {
	Campaign       address.Address `json:"campaign"`
	Label          string          `json:"label"`
	Sequence       int64           `json:"sequence"`
	WithAttachment bool            `json:"with_attachment"`
}

type PostUpdateResponse struct {
	Update    Update `json:"update"`
	UploadURL string `json:"upload_url,omitempty"`
}

type ListUpdatesRequest struct {
	Campaign address.Address `json:"campaign"`
}

type ListUpdatesResponse struct {
	Updates []Update `json:"updates"`
}
