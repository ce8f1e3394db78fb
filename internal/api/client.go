package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/dmitrijs2005/buidlvault/internal/netx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// WithAccessToken attaches the session access token to outgoing calls.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

// Client is a typed client for both vault services. Errors carrying a vault
// error code unwrap to the matching common sentinel.
type Client struct {
	cc   grpc.ClientConnInterface
	http *http.Client
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc, http: http.DefaultClient}
}

// WithHTTPClient sets the client used for attachment transfers.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, FromStatus(err)
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, SessionService_Ping_FullMethodName, &PingRequest{}, opts...)
}

func (c *Client) RequestChallenge(ctx context.Context, identity address.Address, opts ...grpc.CallOption) (*ChallengeResponse, error) {
	return invoke[ChallengeResponse](ctx, c.cc, SessionService_RequestChallenge_FullMethodName, &ChallengeRequest{Identity: identity}, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, SessionService_Login_FullMethodName, in, opts...)
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, SessionService_RefreshToken_FullMethodName, &RefreshTokenRequest{RefreshToken: refreshToken}, opts...)
}

func (c *Client) CreateMint(ctx context.Context, in *CreateMintRequest, opts ...grpc.CallOption) (*MintResponse, error) {
	return invoke[MintResponse](ctx, c.cc, VaultService_CreateMint_FullMethodName, in, opts...)
}

func (c *Client) OpenTokenAccount(ctx context.Context, in *OpenTokenAccountRequest, opts ...grpc.CallOption) (*TokenAccountResponse, error) {
	return invoke[TokenAccountResponse](ctx, c.cc, VaultService_OpenTokenAccount_FullMethodName, in, opts...)
}

func (c *Client) MintTo(ctx context.Context, in *MintToRequest, opts ...grpc.CallOption) (*TokenAccountResponse, error) {
	return invoke[TokenAccountResponse](ctx, c.cc, VaultService_MintTo_FullMethodName, in, opts...)
}

func (c *Client) GetTokenAccount(ctx context.Context, in *GetTokenAccountRequest, opts ...grpc.CallOption) (*TokenAccountResponse, error) {
	return invoke[TokenAccountResponse](ctx, c.cc, VaultService_GetTokenAccount_FullMethodName, in, opts...)
}

func (c *Client) CreateCampaign(ctx context.Context, in *CreateCampaignRequest, opts ...grpc.CallOption) (*CampaignResponse, error) {
	return invoke[CampaignResponse](ctx, c.cc, VaultService_CreateCampaign_FullMethodName, in, opts...)
}

func (c *Client) GetCampaign(ctx context.Context, in *GetCampaignRequest, opts ...grpc.CallOption) (*CampaignResponse, error) {
	return invoke[CampaignResponse](ctx, c.cc, VaultService_GetCampaign_FullMethodName, in, opts...)
}

func (c *Client) GetVault(ctx context.Context, in *GetVaultRequest, opts ...grpc.CallOption) (*TokenAccountResponse, error) {
	return invoke[TokenAccountResponse](ctx, c.cc, VaultService_GetVault_FullMethodName, in, opts...)
}

func (c *Client) Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*DepositResponse, error) {
	return invoke[DepositResponse](ctx, c.cc, VaultService_Deposit_FullMethodName, in, opts...)
}

func (c *Client) GetBacker(ctx context.Context, in *GetBackerRequest, opts ...grpc.CallOption) (*BackerResponse, error) {
	return invoke[BackerResponse](ctx, c.cc, VaultService_GetBacker_FullMethodName, in, opts...)
}

func (c *Client) CreateProposal(ctx context.Context, in *CreateProposalRequest, opts ...grpc.CallOption) (*ProposalResponse, error) {
	return invoke[ProposalResponse](ctx, c.cc, VaultService_CreateProposal_FullMethodName, in, opts...)
}

func (c *Client) GetProposal(ctx context.Context, in *GetProposalRequest, opts ...grpc.CallOption) (*ProposalResponse, error) {
	return invoke[ProposalResponse](ctx, c.cc, VaultService_GetProposal_FullMethodName, in, opts...)
}

func (c *Client) ListProposals(ctx context.Context, in *ListProposalsRequest, opts ...grpc.CallOption) (*ListProposalsResponse, error) {
	return invoke[ListProposalsResponse](ctx, c.cc, VaultService_ListProposals_FullMethodName, in, opts...)
}

func (c *Client) Vote(ctx context.Context, in *VoteRequest, opts ...grpc.CallOption) (*VoteResponse, error) {
	return invoke[VoteResponse](ctx, c.cc, VaultService_Vote_FullMethodName, in, opts...)
}

func (c *Client) GetVote(ctx context.Context, in *GetVoteRequest, opts ...grpc.CallOption) (*VoteRecordResponse, error) {
	return invoke[VoteRecordResponse](ctx, c.cc, VaultService_GetVote_FullMethodName, in, opts...)
}

func (c *Client) CheckProposal(ctx context.Context, in *CheckProposalRequest, opts ...grpc.CallOption) (*CheckProposalResponse, error) {
	return invoke[CheckProposalResponse](ctx, c.cc, VaultService_CheckProposal_FullMethodName, in, opts...)
}

func (c *Client) PostUpdate(ctx context.Context, in *PostUpdateRequest, opts ...grpc.CallOption) (*PostUpdateResponse, error) {
	return invoke[PostUpdateResponse](ctx, c.cc, VaultService_PostUpdate_FullMethodName, in, opts...)
}

func (c *Client) ListUpdates(ctx context.Context, in *ListUpdatesRequest, opts ...grpc.CallOption) (*ListUpdatesResponse, error) {
	return invoke[ListUpdatesResponse](ctx, c.cc, VaultService_ListUpdates_FullMethodName, in, opts...)
}

// UploadAttachment sends the body of an update attachment to the upload URL
// returned by PostUpdate.
func (c *Client) UploadAttachment(ctx context.Context, uploadURL string, body []byte) error {
	return netx.PutPresigned(ctx, c.http, uploadURL, bytes.NewReader(body), int64(len(body)))
}

// DownloadAttachment fetches an attachment by the download URL listed with
// its update.
func (c *Client) DownloadAttachment(ctx context.Context, downloadURL string) ([]byte, error) {
	return netx.GetPresigned(ctx, c.http, downloadURL)
}
