package enumscan

import "errors"

var (
	// ErrUnexpectedEOF indicates a keyword or assignment needed a token past the end of the stream
	ErrUnexpectedEOF = errors.New("unexpected end of token stream")

	// ErrInvalidLiteral indicates an enum value that is neither decimal nor 0x-prefixed hex
	ErrInvalidLiteral = errors.New("invalid enum value literal")

	// ErrInputNotFound indicates the source file to scan does not exist
	ErrInputNotFound = errors.New("input file not found")
)
