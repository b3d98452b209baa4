package models

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")

	ErrAcquisition       = errors.New("audio acquisition failed")
	ErrTranscription     = errors.New("transcription failed")
	ErrMalformedInput    = errors.New("malformed timecoded input")
	ErrGenerationRefused = errors.New("generation refused")
	ErrGenerationFailed  = errors.New("generation failed")
)
