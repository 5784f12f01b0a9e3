package service

import (
	"errors"
	"fmt"
	"testing"

	"anonymizer/internal/blob"
	"anonymizer/internal/dto"
)

func TestBuildResponse(t *testing.T) {
	req := dto.Request{Image: "s3://in/a.jpg", FilteredImage: "s3://out/a.jpg"}
	src, _ := blob.ParseS3(req.Image)
	dst, _ := blob.ParseS3(req.FilteredImage)

	tests := []struct {
		name    string
		err     error
		code    dto.StatusCode
		message string
	}{
		{"success", nil, "200", "image uploaded to as: s3://out/a.jpg"},
		{"missing", &RequestError{Field: "image"}, "500", "Input parameters 'image' or 'filtered_image' missing. Exiting."},
		{"bad scheme", &RequestError{Field: "filtered_image", Value: "http://x/y", Err: errors.New("scheme")}, "500", "Provided URL not an S3 URL: http://x/y"},
		{"not found", blob.NotFoundError("download", src, errors.New("nope")), "404", "The object does not exist: s3://in/a.jpg"},
		{"download", &blob.Error{Op: "download", Locator: src, Code: "403"}, "403", "The object could not be downloaded: s3://in/a.jpg"},
		{"upload", &blob.Error{Op: "upload", Locator: dst, Code: "NoSuchBucket"}, "NoSuchBucket", "Failed to upload: s3://out/a.jpg"},
		{"upload wrapped", fmt.Errorf("ctx: %w", blob.Wrap("upload", dst, errors.New("reset"))), "500", "Failed to upload: s3://out/a.jpg"},
		{"processing", &ProcessingError{Stage: "inference", Err: errors.New("bad tensor")}, "500", "The image could not be anonymized: s3://in/a.jpg"},
	}

	for _, tt := range tests {
		response := BuildResponse(req, tt.err)
		if response.StatusCode != tt.code {
			t.Errorf("%s: code = %s, expected %s", tt.name, response.StatusCode, tt.code)
		}
		if response.Message() != tt.message {
			t.Errorf("%s: message = %q, expected %q", tt.name, response.Message(), tt.message)
		}
	}
}

func TestValidate(t *testing.T) {
	src, dst, err := Validate(dto.Request{Image: "s3://in/a.jpg", FilteredImage: "s3://out/b.jpg"})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if src.Container() != "in" || dst.Key() != "b.jpg" {
		t.Errorf("Unexpected locators: %s %s", src, dst)
	}

	_, _, err = Validate(dto.Request{Image: "s3://in/a.jpg", FilteredImage: "file:///tmp/b.jpg"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Field != "filtered_image" {
		t.Errorf("Expected filtered_image RequestError, got %v", err)
	}
}
