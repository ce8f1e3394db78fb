package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)

	a := address.NewRandom()
	b, err := c.Marshal(&GetCampaignRequest{Campaign: a})
	require.NoError(t, err)
	assert.Equal(t, `{"campaign":"`+a.String()+`"}`, string(b))

	var out GetCampaignRequest
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, a, out.Campaign)

	require.NoError(t, c.Unmarshal(nil, &out))
	assert.Error(t, c.Unmarshal([]byte(`{"campaign":"0OIl"}`), &out))
}

func TestStatus_RoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		common.ErrInsufficientFunds,
		common.ErrAlreadyVoted,
		common.ErrProposalNotOver,
		common.ErrDerivationMismatch,
		common.ErrLabelTooLong,
		common.ErrorNotFound,
		common.ErrVersionConflict,
	} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			st := Status(fmt.Errorf("deposit: %w", sentinel))
			assert.Equal(t, common.CodeOf(sentinel).GRPCCode(), st.Code())

			err := FromStatus(st.Err())
			assert.ErrorIs(t, err, sentinel)
			assert.Equal(t, st.Code(), status.Code(err))
			assert.True(t, strings.Contains(err.Error(), sentinel.Error()))
		})
	}
}

func TestStatus_UnknownErrorIsOpaque(t *testing.T) {
	st := Status(errors.New("pq: connection refused to 10.0.0.3"))
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())
	assert.Empty(t, st.Details())
}

func TestFromStatus_PassThrough(t *testing.T) {
	assert.NoError(t, FromStatus(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, FromStatus(plain))

	bare := status.Error(codes.Unavailable, "down")
	assert.Equal(t, bare, FromStatus(bare))
}

type pingOnly struct {
	SessionServer
	calls int
}

func (p *pingOnly) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	p.calls++
	return &PingResponse{Status: "OK"}, nil
}

func methodHandler(t *testing.T, desc grpc.ServiceDesc, name string) grpc.MethodDesc {
	t.Helper()
	for _, m := range desc.Methods {
		if m.MethodName == name {
			return m
		}
	}
	t.Fatalf("method %s not found", name)
	return grpc.MethodDesc{}
}

func TestUnary_InterceptorSeesFullMethod(t *testing.T) {
	srv := &pingOnly{}
	m := methodHandler(t, SessionService_ServiceDesc, "Ping")

	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}

	resp, err := m.Handler(srv, context.Background(), func(any) error { return nil }, interceptor)
	require.NoError(t, err)
	assert.Equal(t, SessionService_Ping_FullMethodName, seen)
	assert.Equal(t, "OK", resp.(*PingResponse).Status)

	_, err = m.Handler(srv, context.Background(), func(any) error { return nil }, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.calls)
}

func TestUnary_DecodeErrorIsInvalidArgument(t *testing.T) {
	m := methodHandler(t, SessionService_ServiceDesc, "Ping")
	dec := func(any) error { return status.Error(codes.Internal, "grpc: error unmarshalling request: bad base58") }

	_, err := m.Handler(&pingOnly{}, context.Background(), dec, nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "bad base58")
}

func TestServiceDescs_CoverEveryMethodName(t *testing.T) {
	for _, desc := range []grpc.ServiceDesc{SessionService_ServiceDesc, VaultService_ServiceDesc} {
		for _, m := range desc.Methods {
			full := "/" + desc.ServiceName + "/" + m.MethodName
			_, public := PublicMethods[full]
			if strings.HasPrefix(m.MethodName, "Get") || strings.HasPrefix(m.MethodName, "List") {
				assert.True(t, public, "%s should be readable without a token", full)
			}
		}
	}
	assert.Len(t, VaultService_ServiceDesc.Methods, 17)
}

func TestClient_AttachmentTransfer(t *testing.T) {
	var stored []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			stored, _ = io.ReadAll(r.Body)
		case http.MethodGet:
			_, _ = w.Write(stored)
		}
	}))
	defer ts.Close()

	c := NewClient(nil).WithHTTPClient(ts.Client())

	require.NoError(t, c.UploadAttachment(context.Background(), ts.URL+"/put", []byte("receipt")))
	got, err := c.DownloadAttachment(context.Background(), ts.URL+"/get")
	require.NoError(t, err)
	assert.Equal(t, "receipt", string(got))
}
