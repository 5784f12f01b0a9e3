package blob

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

func responseError(status int, err error) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
			Err:      err,
		},
	}
}

func TestClassifyS3Error(t *testing.T) {
	loc, _ := ParseS3("s3://bucket/key.jpg")

	tests := []struct {
		name     string
		err      error
		code     string
		notFound bool
	}{
		{"no such key", &types.NoSuchKey{}, "404", true},
		{"head not found", &types.NotFound{}, "404", true},
		{"status 404", responseError(404, &smithy.GenericAPIError{Code: "NotFound"}), "404", true},
		{"status 403", responseError(403, &smithy.GenericAPIError{Code: "AccessDenied"}), "403", false},
		{"api code only", &smithy.GenericAPIError{Code: "NoSuchBucket"}, "NoSuchBucket", false},
		{"transport", errors.New("dial tcp: connection refused"), "500", false},
	}

	for _, tt := range tests {
		err := classifyS3Error("download", loc, fmt.Errorf("operation error: %w", tt.err))
		if err.Code != tt.code {
			t.Errorf("%s: code = %q, expected %q", tt.name, err.Code, tt.code)
		}
		if errors.Is(err, ErrNotFound) != tt.notFound {
			t.Errorf("%s: errors.Is(err, ErrNotFound) = %v, expected %v", tt.name, !tt.notFound, tt.notFound)
		}
		if ErrorCode(err) != tt.code {
			t.Errorf("%s: ErrorCode = %q, expected %q", tt.name, ErrorCode(err), tt.code)
		}
	}
}

func TestErrorCode_Fallback(t *testing.T) {
	if code := ErrorCode(errors.New("plain")); code != CodeUnknown {
		t.Errorf("Expected %s, got %s", CodeUnknown, code)
	}
	if code := ErrorCode(nil); code != CodeUnknown {
		t.Errorf("Expected %s for nil, got %s", CodeUnknown, code)
	}
}

func TestError_Message(t *testing.T) {
	loc, _ := ParseS3("s3://bucket/key.jpg")
	err := NotFoundError("download", loc, errors.New("missing"))

	expected := "blob: download s3://bucket/key.jpg failed (404): missing"
	if err.Error() != expected {
		t.Errorf("Error() = %q, expected %q", err.Error(), expected)
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", err), ErrNotFound) {
		t.Error("Wrapped not-found error should match ErrNotFound")
	}
}
