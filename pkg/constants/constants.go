// Package constants defines system-wide constants for the railtix booking service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Inventory Constants
// ================================================================================

const (
	// TotalTickets is the size of the shared ticket pool at process start.
	TotalTickets = 500

	// MaxTicketsPerUser is both the per-booking quantity ceiling and the
	// cumulative per-user cap.
	MaxTicketsPerUser = 5
)

// ================================================================================
// Rate Limiting Constants
// ================================================================================

const (
	// RequestWindow is the sliding window applied to booking requests in the
	// programmatic (API) variant.
	RequestWindow = 15 * time.Minute

	// MaxRequestsPerWindow is the request ceiling inside RequestWindow.
	// The comparison is inclusive: a user holding exactly this many recorded
	// timestamps is rejected.
	MaxRequestsPerWindow = 10

	// BookingWindow is the sliding window applied to completed bookings in the
	// interactive (console) variant.
	BookingWindow = 30 * time.Minute

	// MaxBookingsPerWindow is the booking ceiling inside BookingWindow.
	MaxBookingsPerWindow = 3
)

// RateLimitScope defines the scope level for rate limiting.
type RateLimitScope string

const (
	// RateLimitScopeUser applies per user identity.
	RateLimitScopeUser RateLimitScope = "user"

	// RateLimitScopeIP applies per client IP address.
	RateLimitScopeIP RateLimitScope = "ip"
)

// ================================================================================
// Fraud Heuristic Constants
// ================================================================================

const (
	// DeviceIPThreshold is the size above which a user's combined device/IP set
	// flags the user as suspicious. The set deliberately conflates device
	// identifiers and IP addresses; the threshold applies to the union.
	DeviceIPThreshold = 3
)

// ================================================================================
// Payment Constants
// ================================================================================

const (
	// PaymentDelay is the simulated processing delay of the stub payment
	// authority.
	PaymentDelay = 1500 * time.Millisecond
)

// ================================================================================
// Booking Outcome Constants
// ================================================================================

// BookingOutcome classifies the result of a booking attempt for events,
// metrics, and the archive.
type BookingOutcome string

const (
	// OutcomeConfirmed indicates tickets were issued.
	OutcomeConfirmed BookingOutcome = "confirmed"

	// OutcomeRejected indicates a validation failure; no state was mutated.
	OutcomeRejected BookingOutcome = "rejected"
)

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode identifies a rejection class surfaced to callers.
type ErrorCode string

const (
	// ErrCodeInvalidInput indicates a malformed or out-of-range request.
	ErrCodeInvalidInput ErrorCode = "invalid_input"

	// ErrCodeInvalidCredentials indicates the identity predicate rejected the caller.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"

	// ErrCodeSuspiciousActivity indicates the fraud heuristic flagged the caller.
	ErrCodeSuspiciousActivity ErrorCode = "suspicious_activity"

	// ErrCodeRateLimitExceeded indicates the sliding-window limit was hit.
	ErrCodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"

	// ErrCodeQuotaExceeded indicates the per-user cumulative cap would be exceeded.
	ErrCodeQuotaExceeded ErrorCode = "quota_exceeded"

	// ErrCodeInsufficientInventory indicates the pool cannot satisfy the request.
	ErrCodeInsufficientInventory ErrorCode = "insufficient_inventory"

	// ErrCodePaymentFailed indicates the payment authority declined.
	ErrCodePaymentFailed ErrorCode = "payment_failed"

	// ErrCodeInternal indicates an unexpected server-side failure.
	ErrCodeInternal ErrorCode = "internal_error"
)

// ================================================================================
// Service Configuration Constants
// ================================================================================

const (
	// DefaultServicePort is the default HTTP service port.
	DefaultServicePort = 8080

	// DefaultRequestTimeout is the default per-request timeout.
	DefaultRequestTimeout = 5 * time.Second

	// DefaultShutdownTimeout is the graceful shutdown timeout.
	DefaultShutdownTimeout = 30 * time.Second
)

// ================================================================================
// Logging Constants
// ================================================================================

// LogLevel represents the severity level of log messages.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context.
type ContextKey string

const (
	// ContextKeyRequestID is the key for the request ID in context.
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyUserID is the key for the acting user in context.
	ContextKeyUserID ContextKey = "user_id"

	// ContextKeyClientIP is the key for the client IP address in context.
	ContextKeyClientIP ContextKey = "client_ip"
)

// ================================================================================
// Ticket Code Constants
// ================================================================================

const (
	// TicketCodeLetters is the number of leading uppercase letters in a code.
	TicketCodeLetters = 3

	// TicketCodeDigits is the number of trailing zero-padded digits in a code.
	TicketCodeDigits = 4

	// TicketCodePattern is the regular expression every issued code matches.
	TicketCodePattern = `^[A-Z]{3}[0-9]{4}$`
)

// ================================================================================
// Fallback Identity Constants
// ================================================================================

const (
	// FallbackIPAddress is used when local address detection fails.
	FallbackIPAddress = "127.0.0.1"

	// FallbackMachineIDPrefix prefixes the synthetic machine ID used when no
	// hardware address can be read.
	FallbackMachineIDPrefix = "LOCAL-"
)
