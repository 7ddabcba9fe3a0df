package solbc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// AnchorError is a program error reported through an Anchor log line.
type AnchorError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg"`
}

func (e AnchorError) String() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

// ErrorAnalysis is what could be extracted from a failed RPC call.
type ErrorAnalysis struct {
	Type             string       `json:"type"`
	Code             int          `json:"code,omitempty"`
	Message          string       `json:"message"`
	SimulationFailed bool         `json:"simulationFailed,omitempty"`
	Logs             []string     `json:"logs,omitempty"`
	Anchor           *AnchorError `json:"anchor,omitempty"`
}

// Summary renders the most specific description available.
func (a ErrorAnalysis) Summary() string {
	if a.Anchor != nil {
		return a.Anchor.String()
	}
	return a.Message
}

// ErrorAnalyzer extracts program errors from RPC failures.
type ErrorAnalyzer struct {
	logger *zap.Logger
}

// NewErrorAnalyzer creates a new ErrorAnalyzer instance
func NewErrorAnalyzer(logger *zap.Logger) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		logger: logger.Named("error-analyzer"),
	}
}

// AnalyzeRPCError inspects err, which may wrap a *jsonrpc.RPCError carrying
// preflight simulation logs.
func (ea *ErrorAnalyzer) AnalyzeRPCError(err error) ErrorAnalysis {
	if err == nil {
		return ErrorAnalysis{Type: "none"}
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return ErrorAnalysis{Type: "generic_error", Message: err.Error()}
	}

	result := ErrorAnalysis{
		Type:    "rpc_error",
		Code:    rpcErr.Code,
		Message: rpcErr.Message,
	}

	if !strings.Contains(rpcErr.Message, "Transaction simulation failed") {
		return result
	}
	result.SimulationFailed = true

	dataMap, ok := rpcErr.Data.(map[string]interface{})
	if !ok {
		return result
	}
	logs, _ := dataMap["logs"].([]interface{})
	for _, entry := range logs {
		line, ok := entry.(string)
		if !ok {
			continue
		}
		result.Logs = append(result.Logs, line)
		if strings.Contains(line, "AnchorError") {
			anchorErr := ParseAnchorErrorLog(line)
			result.Anchor = &anchorErr
			ea.logger.Warn("Anchor error detected",
				zap.Int("code", anchorErr.Code),
				zap.String("name", anchorErr.Name),
				zap.String("message", anchorErr.Msg))
		}
	}
	return result
}

// ParseAnchorErrorLog parses a log line such as
// "Program log: AnchorError occurred. Error Code: InvalidBinId. Error Number: 6003. Error Message: Invalid bin id."
func ParseAnchorErrorLog(line string) AnchorError {
	result := AnchorError{}

	if parts := strings.SplitN(line, "Error Number:", 2); len(parts) == 2 {
		num := strings.SplitN(parts[1], ".", 2)[0]
		fmt.Sscanf(strings.TrimSpace(num), "%d", &result.Code)
	}
	if parts := strings.SplitN(line, "Error Code:", 2); len(parts) == 2 {
		result.Name = strings.TrimSpace(strings.SplitN(parts[1], ".", 2)[0])
	}
	if parts := strings.SplitN(line, "Error Message:", 2); len(parts) == 2 {
		result.Msg = strings.TrimSuffix(strings.TrimSpace(parts[1]), ".")
	}
	return result
}
