package service

import (
	"fmt"

	"anonymizer/internal/blob"
	"anonymizer/internal/dto"
)

// RequestError reports a missing or malformed request field.
type RequestError struct {
	Field string
	Value string
	Err   error // nil when the field is missing
}

func (e *RequestError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("request field %q is missing", e.Field)
	}
	return fmt.Sprintf("request field %q: %v", e.Field, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ProcessingError reports a failure between download and upload: decoding,
// model loading, inference, blurring or encoding.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Validate checks that both locators are present and are s3 URLs.
func Validate(req dto.Request) (src, dst blob.Locator, err error) {
	if req.Image == "" {
		return src, dst, &RequestError{Field: "image"}
	}
	if req.FilteredImage == "" {
		return src, dst, &RequestError{Field: "filtered_image"}
	}

	if src, err = blob.ParseS3(req.Image); err != nil {
		return src, dst, &RequestError{Field: "image", Value: req.Image, Err: err}
	}
	if dst, err = blob.ParseS3(req.FilteredImage); err != nil {
		return src, dst, &RequestError{Field: "filtered_image", Value: req.FilteredImage, Err: err}
	}
	return src, dst, nil
}
