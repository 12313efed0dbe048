package macro

import (
	"errors"
	"fmt"
)

var (
	// ErrArgumentParse is matched by every *ArgumentParseError.
	ErrArgumentParse = errors.New("invalid macro argument")
	// ErrTransformer is matched by every *TransformerError.
	ErrTransformer = errors.New("macro transformer failed")
	// ErrUnknownTransformer is returned when a binding names a transformer
	// that is not registered.
	ErrUnknownTransformer = errors.New("unknown transformer")
	// ErrInvalidBinding is returned for empty or duplicate identifiers.
	ErrInvalidBinding = errors.New("invalid macro binding")
)

// ArgumentParseError reports a macro call whose argument is not valid JSON,
// or a call with no closing parenthesis.
type ArgumentParseError struct {
	Identifier string
	Raw        string
	Offset     int
	Err        error
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("macro %s at offset %d: cannot parse argument %q: %v", e.Identifier, e.Offset, e.Raw, e.Err)
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }

func (e *ArgumentParseError) Is(target error) bool { return target == ErrArgumentParse }

// TransformerError wraps a failure returned by a transformer.
type TransformerError struct {
	Identifier  string
	Transformer string
	Err         error
}

func (e *TransformerError) Error() string {
	return fmt.Sprintf("macro %s (%s): %v", e.Identifier, e.Transformer, e.Err)
}

func (e *TransformerError) Unwrap() error { return e.Err }

func (e *TransformerError) Is(target error) bool { return target == ErrTransformer }
