package core

import (
	"errors"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrMissingInput         = errors.New("missing input")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnsupportedFormat    = errors.New("unsupported format")
	ErrFileTooLarge         = errors.New("file too large")
	ErrTransportFailure     = errors.New("transport failure")
	ErrServiceError         = errors.New("service error")
	ErrSubmissionInProgress = errors.New("submission in progress")
)

const (
	MsgMissingInput      = "Inclua um texto ou anexe um arquivo .txt ou .pdf para classificar."
	MsgInvalidInput      = "É necessário fornecer um texto de email ou anexar um arquivo."
	MsgUnsupportedFormat = "Formato não suportado. Envie um arquivo .txt ou .pdf."
	MsgFileTooLarge      = "O arquivo excede 16MB. Selecione um arquivo menor."
	MsgUnknownError      = "Ocorreu um erro desconhecido."
	MsgInProgress        = "Uma classificação já está em andamento."
)

// Error carries a kind, the human-readable message shown to the user and
// an optional underlying cause
type Error struct {
	Kind    error
	Message string
	Cause   error
}

// NewError creates an error of the given kind
func NewError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Message extracts the user-facing message from err
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgUnknownError
}

// ServiceErrorMessage picks the message for a result whose payload reports
// a failure: a non-blank reason wins over the bare error code.
func ServiceErrorMessage(r ClassificationResult) string {
	if r.Reason != nil && strings.TrimSpace(*r.Reason) != "" {
		return *r.Reason
	}
	if r.ServiceError != nil {
		if code := strings.TrimSpace(*r.ServiceError); code != "" {
			return code
		}
	}
	return MsgUnknownError
}
