package api

import (
	"fmt"

	"github.com/dmitrijs2005/buidlvault/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain tags the ErrorInfo details produced by the vault.
const ErrorDomain = "buidlvault"

// Status builds the gRPC status for a domain error. Errors without a known
// code become a bare Internal status so nothing internal leaks.
func Status(err error) *status.Status {
	code := common.CodeOf(err)
	if code == common.CodeUnknown {
		return status.New(codes.Internal, "internal error")
	}
	st := status.New(code.GRPCCode(), err.Error())
	withInfo, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(code),
		Domain: ErrorDomain,
	})
	if derr != nil {
		return st
	}
	return withInfo
}

// FromStatus turns an error returned by a vault call back into an error
// matching the original sentinel with errors.Is.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}
		if sentinel := common.ErrorForCode(common.Code(info.GetReason())); sentinel != nil {
			return &remoteError{st: st, sentinel: sentinel}
		}
	}
	return err
}

type remoteError struct {
	st       *status.Status
	sentinel error
}

func (e *remoteError) Error() string {
	return fmt.Sprintf("rpc error: code = %s desc = %s", e.st.Code(), e.st.Message())
}

func (e *remoteError) Unwrap() error {
	return e.sentinel
}

// GRPCStatus keeps status.Code and status.FromError working on the result.
func (e *remoteError) GRPCStatus() *status.Status {
	return e.st
}
