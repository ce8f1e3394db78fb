package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	SessionServiceName = "buidlvault.v1.SessionService"
	VaultServiceName   = "buidlvault.v1.VaultService"
)

// Full method names.
const (
	SessionService_Ping_FullMethodName             = "/" + SessionServiceName + "/Ping"
	SessionService_RequestChallenge_FullMethodName = "/" + SessionServiceName + "/RequestChallenge"
	SessionService_Login_FullMethodName            = "/" + SessionServiceName + "/Login"
	SessionService_RefreshToken_FullMethodName     = "/" + SessionServiceName + "/RefreshToken"

	VaultService_CreateMint_FullMethodName       = "/" + VaultServiceName + "/CreateMint"
	VaultService_OpenTokenAccount_FullMethodName = "/" + VaultServiceName + "/OpenTokenAccount"
	VaultService_MintTo_FullMethodName           = "/" + VaultServiceName + "/MintTo"
	VaultService_GetTokenAccount_FullMethodName  = "/" + VaultServiceName + "/GetTokenAccount"
	VaultService_CreateCampaign_FullMethodName   = "/" + VaultServiceName + "/CreateCampaign"
	VaultService_GetCampaign_FullMethodName      = "/" + VaultServiceName + "/GetCampaign"
	VaultService_GetVault_FullMethodName         = "/" + VaultServiceName + "/GetVault"
	VaultService_Deposit_FullMethodName          = "/" + VaultServiceName + "/Deposit"
	VaultService_GetBacker_FullMethodName        = "/" + VaultServiceName + "/GetBacker"
	VaultService_CreateProposal_FullMethodName   = "/" + VaultServiceName + "/CreateProposal"
	VaultService_GetProposal_FullMethodName      = "/" + VaultServiceName + "/GetProposal"
	VaultService_ListProposals_FullMethodName    = "/" + VaultServiceName + "/ListProposals"
	VaultService_Vote_FullMethodName             = "/" + VaultServiceName + "/Vote"
	VaultService_GetVote_FullMethodName          = "/" + VaultServiceName + "/GetVote"
	VaultService_CheckProposal_FullMethodName    = "/" + VaultServiceName + "/CheckProposal"
	VaultService_PostUpdate_FullMethodName       = "/" + VaultServiceName + "/PostUpdate"
	VaultService_ListUpdates_FullMethodName      = "/" + VaultServiceName + "/ListUpdates"
)

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	SessionService_Ping_FullMethodName:             true,
	SessionService_RequestChallenge_FullMethodName: true,
	SessionService_Login_FullMethodName:            true,
	SessionService_RefreshToken_FullMethodName:     true,

	VaultService_GetTokenAccount_FullMethodName: true,
	VaultService_GetCampaign_FullMethodName:     true,
	VaultService_GetVault_FullMethodName:        true,
	VaultService_GetBacker_FullMethodName:       true,
	VaultService_GetProposal_FullMethodName:     true,
	VaultService_ListProposals_FullMethodName:   true,
	VaultService_GetVote_FullMethodName:         true,
	VaultService_ListUpdates_FullMethodName:     true,
}

type SessionServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RequestChallenge(context.Context, *ChallengeRequest) (*ChallengeResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error)
}

type VaultServer interface {
	CreateMint(context.Context, *CreateMintRequest) (*MintResponse, error)
	OpenTokenAccount(context.Context, *OpenTokenAccountRequest) (*TokenAccountResponse, error)
	MintTo(context.Context, *MintToRequest) (*TokenAccountResponse, error)
	GetTokenAccount(context.Context, *GetTokenAccountRequest) (*TokenAccountResponse, error)

	CreateCampaign(context.Context, *CreateCampaignRequest) (*CampaignResponse, error)
	GetCampaign(context.Context, *GetCampaignRequest) (*CampaignResponse, error)
	GetVault(context.Context, *GetVaultRequest) (*TokenAccountResponse, error)
	Deposit(context.Context, *DepositRequest) (*DepositResponse, error)
	GetBacker(context.Context, *GetBackerRequest) (*BackerResponse, error)

	CreateProposal(context.Context, *CreateProposalRequest) (*ProposalResponse, error)
	GetProposal(context.Context, *GetProposalRequest) (*ProposalResponse, error)
	ListProposals(context.Context, *ListProposalsRequest) (*ListProposalsResponse, error)
	Vote(context.Context, *VoteRequest) (*VoteResponse, error)
	GetVote(context.Context, *GetVoteRequest) (*VoteRecordResponse, error)
	CheckProposal(context.Context, *CheckProposalRequest) (*CheckProposalResponse, error)

	PostUpdate(context.Context, *PostUpdateRequest) (*PostUpdateResponse, error)
	ListUpdates(context.Context, *ListUpdatesRequest) (*ListUpdatesResponse, error)
}

// unary builds a method descriptor the way generated gRPC code does, with the
// request decoded by the codec negotiated for the call.
func unary[S any, Req any, Resp any](service, name string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, status.Errorf(codes.InvalidArgument, "malformed request: %s", status.Convert(err).Message())
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + service + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var SessionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(SessionServiceName, "Ping", SessionServer.Ping),
		unary(SessionServiceName, "RequestChallenge", SessionServer.RequestChallenge),
		unary(SessionServiceName, "Login", SessionServer.Login),
		unary(SessionServiceName, "RefreshToken", SessionServer.RefreshToken),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "buidlvault/v1/session.json",
}

var VaultService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: VaultServiceName,
	HandlerType: (*VaultServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(VaultServiceName, "CreateMint", VaultServer.CreateMint),
		unary(VaultServiceName, "OpenTokenAccount", VaultServer.OpenTokenAccount),
		unary(VaultServiceName, "MintTo", VaultServer.MintTo),
		unary(VaultServiceName, "GetTokenAccount", VaultServer.GetTokenAccount),
		unary(VaultServiceName, "CreateCampaign", VaultServer.CreateCampaign),
		unary(VaultServiceName, "GetCampaign", VaultServer.GetCampaign),
		unary(VaultServiceName, "GetVault", VaultServer.GetVault),
		unary(VaultServiceName, "Deposit", VaultServer.Deposit),
		unary(VaultServiceName, "GetBacker", VaultServer.GetBacker),
		unary(VaultServiceName, "CreateProposal", VaultServer.CreateProposal),
		unary(VaultServiceName, "GetProposal", VaultServer.GetProposal),
		unary(VaultServiceName, "ListProposals", VaultServer.ListProposals),
		unary(VaultServiceName, "Vote", VaultServer.Vote),
		unary(VaultServiceName, "GetVote", VaultServer.GetVote),
		unary(VaultServiceName, "CheckProposal", VaultServer.CheckProposal),
		unary(VaultServiceName, "PostUpdate", VaultServer.PostUpdate),
		unary(VaultServiceName, "ListUpdates", VaultServer.ListUpdates),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "buidlvault/v1/vault.json",
}

func RegisterSessionServiceServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&SessionService_ServiceDesc, srv)
}

func RegisterVaultServiceServer(s grpc.ServiceRegistrar, srv VaultServer) {
	s.RegisterService(&VaultService_ServiceDesc, srv)
}
