package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// TransportError represents a network-level failure talking to an exchange.
// Always retriable: the exchange is marked Degraded and retried next cycle.
type TransportError struct {
	Exchange string
	Op       string // Operation that failed (e.g., "request", "read")
	Err      error
}

func (e *TransportError) Error() string {
	return e.Exchange + " " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) IsRetriable() bool { return true }

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError creates a new transport error for an exchange operation
func NewTransportError(exchange, op string, err error) *TransportError {
	return &TransportError{Exchange: exchange, Op: op, Err: err}
}

// ParseError represents a malformed upstream response. Retriable: the
// exchange may serve a well-formed payload on the next cycle.
type ParseError struct {
	Exchange string
	Err      error
}

func (e *ParseError) Error() string {
	return e.Exchange + " parse: " + e.Err.Error()
}

func (e *ParseError) IsRetriable() bool { return true }

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a new parse error for an exchange response
func NewParseError(exchange string, err error) *ParseError {
	return &ParseError{Exchange: exchange, Err: err}
}

// NotSupportedError is returned when an exchange does not list a symbol.
// Not retriable and not a health signal: the transport worked.
type NotSupportedError struct {
	Exchange string
	Symbol   string
}

func (e *NotSupportedError) Error() string {
	return e.Exchange + ": symbol " + e.Symbol + " not supported"
}

func (e *NotSupportedError) IsRetriable() bool { return false }

func (e *NotSupportedError) Unwrap() error { return ErrSymbolNotSupported }

// NewNotSupportedError creates an error for a symbol unknown to an exchange
func NewNotSupportedError(exchange, symbol string) *NotSupportedError {
	return &NotSupportedError{Exchange: exchange, Symbol: symbol}
}

// DataQualityError represents a quote that failed invariant validation.
// The quote is discarded without touching the exchange's health.
type DataQualityError struct {
	Exchange string
	Symbol   string
	Reason   string
}

func (e *DataQualityError) Error() string {
	return e.Exchange + "/" + e.Symbol + ": " + e.Reason
}

func (e *DataQualityError) IsRetriable() bool { return false }

func (e *DataQualityError) Unwrap() error { return ErrBadQuote }

// NewDataQualityError creates an error for a quote violating the bid/ask invariant
func NewDataQualityError(exchange, symbol, reason string) *DataQualityError {
	return &DataQualityError{Exchange: exchange, Symbol: symbol, Reason: reason}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool { return false }

func (e *ConfigError) Unwrap() error { return e.Err }

var (
	// ErrSymbolNotSupported is returned when a symbol is unknown to an exchange. Not retriable.
	ErrSymbolNotSupported = errors.New("symbol not supported")

	// ErrBadQuote is returned when a quote violates the bid/ask invariant
	ErrBadQuote = errors.New("bad quote")

	// ErrUnknownExchange is returned when a configuration names an exchange with no client implementation
	ErrUnknownExchange = errors.New("unknown exchange")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)
