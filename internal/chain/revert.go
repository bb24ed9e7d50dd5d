package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

const revertMarker = "execution reverted"

// IsRevert reports whether err is a contract revert rather than a transport
// failure.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	var de rpc.DataError
	if errors.As(err, &de) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), revertMarker)
}

// RevertReason extracts the Error(string) reason of a revert, if any.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}

	var de rpc.DataError
	if errors.As(err, &de) {
		if s, ok := de.ErrorData().(string); ok {
			if data, decErr := hexutil.Decode(s); decErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return reason
				}
			}
		}
	}

	msg := err.Error()
	if i := strings.Index(strings.ToLower(msg), revertMarker+": "); i >= 0 {
		return strings.TrimSpace(msg[i+len(revertMarker)+2:])
	}

	return ""
}
