package entity

import (
	"errors"
	"fmt"
)

// ErrorKind groups pipeline errors into the retry/surface taxonomy.
// Input, extraction, timeout, and configuration errors are never retried;
// inference errors are retried per chunk and escalate only when every chunk
// exhausts its retries.
type ErrorKind string

const (
	KindInput         ErrorKind = "input"
	KindExtraction    ErrorKind = "extraction"
	KindInference     ErrorKind = "inference"
	KindTimeout       ErrorKind = "timeout"
	KindConfiguration ErrorKind = "configuration"
	// KindUpstream marks failures of an external source the pipeline had to
	// reach (a transcript host down, not a video without captions). These
	// say nothing about the input itself.
	KindUpstream ErrorKind = "upstream"
)

// ErrorCode is a stable, caller-visible error code.
type ErrorCode string

const (
	CodeEmptyInput          ErrorCode = "empty_input"
	CodeInvalidURL          ErrorCode = "invalid_url"
	CodeUnsupportedInput    ErrorCode = "unsupported_input"
	CodeUnreadablePDF       ErrorCode = "unreadable_pdf"
	CodeNoTranscript        ErrorCode = "no_transcript"
	CodeSourceFetchFailed   ErrorCode = "source_fetch_failed"
	CodeVideoTooLong        ErrorCode = "video_too_long"
	CodeUnknownModel        ErrorCode = "unknown_model"
	CodeSummarizationFailed ErrorCode = "summarization_failed"
	CodeRequestTimeout      ErrorCode = "request_timeout"
)

// PipelineError is an error with a stable code and taxonomy kind.
// Handlers map the code to an HTTP status; the kind decides retryability.
type PipelineError struct {
	Kind ErrorKind
	Code ErrorCode
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the underlying cause, if any.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches any PipelineError with the same code, so call sites can use
// errors.Is against the sentinel values below even after wrapping.
func (e *PipelineError) Is(target error) bool {
	var pe *PipelineError
	if errors.As(target, &pe) {
		return e.Code == pe.Code
	}
	return false
}

// Sentinel errors for the pipeline taxonomy. Wrap with %w to add context.
var (
	ErrEmptyInput          = &PipelineError{Kind: KindInput, Code: CodeEmptyInput, Msg: "input text is empty"}
	ErrInvalidURL          = &PipelineError{Kind: KindInput, Code: CodeInvalidURL, Msg: "URL cannot be parsed into a video id"}
	ErrUnsupportedInput    = &PipelineError{Kind: KindInput, Code: CodeUnsupportedInput, Msg: "unsupported input type"}
	ErrUnreadablePDF       = &PipelineError{Kind: KindExtraction, Code: CodeUnreadablePDF, Msg: "PDF has no extractable text layer"}
	ErrNoTranscript        = &PipelineError{Kind: KindExtraction, Code: CodeNoTranscript, Msg: "no transcript available for this video"}
	ErrSourceFetchFailed   = &PipelineError{Kind: KindUpstream, Code: CodeSourceFetchFailed, Msg: "failed to fetch source content"}
	ErrVideoTooLong        = &PipelineError{Kind: KindExtraction, Code: CodeVideoTooLong, Msg: "video exceeds the maximum supported duration"}
	ErrUnknownModel        = &PipelineError{Kind: KindConfiguration, Code: CodeUnknownModel, Msg: "requested model id is not registered"}
	ErrSummarizationFailed = &PipelineError{Kind: KindInference, Code: CodeSummarizationFailed, Msg: "summarization failed for every chunk"}
	ErrRequestTimeout      = &PipelineError{Kind: KindTimeout, Code: CodeRequestTimeout, Msg: "request deadline exceeded"}
)

// WrapPipelineError returns a copy of the sentinel carrying cause as the
// underlying error. The copy still matches the sentinel via errors.Is.
func WrapPipelineError(sentinel *PipelineError, cause error) *PipelineError {
	return &PipelineError{Kind: sentinel.Kind, Code: sentinel.Code, Msg: sentinel.Msg, Err: cause}
}

// CodeOf extracts the stable error code from err, or "internal" when err is
// not a PipelineError.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "internal"
}
