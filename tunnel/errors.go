package tunnel

import "fmt"

// SimError is a custom error type for simulation errors
type SimError struct {
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("simulation error: %s", e.Message)
}

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(msg string) error {
	return SimError{Message: fmt.Sprintf("invalid config: %s", msg)}
}

// ErrInvalidSpeed creates an error for a speed outside [0, 9]
func ErrInvalidSpeed(speed int) error {
	return SimError{Message: fmt.Sprintf("invalid speed: %d (must be between 0 and 9)", speed)}
}

// ErrInvalidPriority creates an error for a priority outside [0, 4]
func ErrInvalidPriority(priority int) error {
	return SimError{Message: fmt.Sprintf("invalid priority: %d (must be between 0 and 4)", priority)}
}
