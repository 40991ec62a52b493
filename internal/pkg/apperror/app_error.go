package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInsufficientTokens   = "INSUFFICIENT_TOKENS"
	CodeInvalidPack          = "INVALID_PACK"
	CodeNotFound             = "NOT_FOUND"
	CodeConversationNotFound = "CONVERSATION_NOT_FOUND"
	CodeSceneNotFound        = "SCENE_NOT_FOUND"
	CodeUpstreamGateway      = "UPSTREAM_GATEWAY_ERROR"
	CodeBillingProvider      = "BILLING_PROVIDER_ERROR"
	CodeLeonardoAPI          = "LEONARDO_API_ERROR"
	CodeImageGeneration      = "IMAGE_GENERATION_FAILED"
	CodeInternal             = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be rendered to a client.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func Validation(message string, details interface{}) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Details: details}
}

func Unauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func InsufficientTokens() *AppError {
	return &AppError{
		Status:  http.StatusPaymentRequired,
		Code:    CodeInsufficientTokens,
		Message: "Insufficient tokens. Purchase more to continue",
	}
}

func InvalidPack(packId string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidPack,
		Message: fmt.Sprintf("Invalid pack: %s", packId),
	}
}

func NotFound(resource string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

func ConversationNotFound() *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeConversationNotFound, Message: "Conversation not found"}
}

func SceneNotFound() *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeSceneNotFound, Message: "Scene not found"}
}

func UpstreamGateway(err error) *AppError {
	return &AppError{Status: http.StatusBadGateway, Code: CodeUpstreamGateway, Message: "AI provider is unavailable", Err: err}
}

func BillingProvider(err error) *AppError {
	return &AppError{Status: http.StatusBadGateway, Code: CodeBillingProvider, Message: "Billing provider request failed", Err: err}
}

func LeonardoAPI(err error) *AppError {
	return &AppError{Status: http.StatusBadGateway, Code: CodeLeonardoAPI, Message: "Image provider request failed", Err: err}
}

func ImageGeneration(message string) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeImageGeneration, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "Internal server error", Err: err}
}
