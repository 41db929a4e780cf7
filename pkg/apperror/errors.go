package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrNotAuthenticated() *AppError {
	return New("AUTH_004", "Please log in to play", http.StatusUnauthorized)
}

func ErrPlayerSuspended() *AppError {
	return New("AUTH_005", "Player account is suspended", http.StatusForbidden)
}

// ---- Wallet Ledger (WAL) ----

func ErrInsufficientBalance() *AppError {
	return New("WAL_001", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("WAL_002", "Invalid amount", http.StatusBadRequest)
}

func ErrWalletNotFound() *AppError {
	return New("WAL_003", "Wallet not found", http.StatusNotFound)
}

// ---- Game Round Engine (GAME) ----

func ErrUnknownGame(game string) *AppError {
	return New("GAME_001", fmt.Sprintf("Unknown game %q", game), http.StatusNotFound)
}

func ErrInvalidBetAmount(min, max int64) *AppError {
	return New("GAME_002", fmt.Sprintf("Bet must be between %d and %d", min, max), http.StatusBadRequest)
}

func ErrRoundNotFound() *AppError {
	return New("GAME_003", "Round not found", http.StatusNotFound)
}

func ErrInvalidGameConfig(reason string) *AppError {
	return New("GAME_004", fmt.Sprintf("Invalid game configuration: %s", reason), http.StatusBadRequest)
}

func ErrRoundInProgress() *AppError {
	return New("GAME_005", "A round is already in progress for this game", http.StatusConflict)
}

func ErrBettingClosed() *AppError {
	return New("GAME_006", "Betting window is closed", http.StatusConflict)
}

func ErrAutoplayNotFound() *AppError {
	return New("GAME_007", "Auto-play session not found", http.StatusNotFound)
}

func ErrAutoplayActive() *AppError {
	return New("GAME_008", "An auto-play session is already running", http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a WAL_002-style validation error.
func Validation(message string) *AppError {
	return New("WAL_002", message, http.StatusBadRequest)
}
