package tool

import "github.com/voyage-ai/voyage/internal/types"

// Tool error codes
const (
	ErrToolNotFound        types.ErrorCode = types.TOOL_NOT_FOUND
	ErrToolAlreadyExists   types.ErrorCode = types.TOOL_ALREADY_EXISTS
	ErrToolInvalidInput    types.ErrorCode = types.TOOL_INVALID_INPUT
	ErrToolExecutionFailed types.ErrorCode = types.TOOL_EXECUTION_FAILED
	ErrToolTimeout         types.ErrorCode = types.TOOL_TIMEOUT
)
