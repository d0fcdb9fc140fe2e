package app

import "errors"

// Validation failures are rejected before any external call and leave session
// state untouched.
var (
	ErrMissingFields      = errors.New("please fill in all required fields")
	ErrNothingToEnhance   = errors.New("generate a prompt before enhancing")
	ErrGenerationInFlight = errors.New("a generation request is already in flight")
	ErrIllegalTransition  = errors.New("illegal stage transition")
	ErrVersionNotFound    = errors.New("prompt version not found")
	ErrArtifactNotFound   = errors.New("prompt artifact not found")
)

type errCtx struct {
	Code  int
	Title string
	Msg   string
}

func errConfigFor(err error) errCtx {
	switch {
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrNothingToEnhance):
		return errCtx{Code: 400, Title: "Validation failed", Msg: err.Error()}
	case errors.Is(err, ErrGenerationInFlight):
		return errCtx{Code: 409, Title: "Request in flight", Msg: err.Error()}
	case errors.Is(err, ErrIllegalTransition):
		return errCtx{Code: 409, Title: "Illegal transition", Msg: err.Error()}
	case errors.Is(err, ErrVersionNotFound), errors.Is(err, ErrArtifactNotFound):
		return errCtx{Code: 404, Title: "Not found", Msg: err.Error()}
	default:
		return errCtx{Code: 500, Title: "Internal server error", Msg: "Sorry, there was an internal server error."}
	}
}

func get405() errCtx {
	return errCtx{
		Code:  405,
		Title: "Method not allowed",
		Msg:   "Sorry, this operation does not support the requested method.",
	}
}
