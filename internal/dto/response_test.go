package dto

import (
	"encoding/json"
	"testing"
)

func TestResponse_MarshalJSON(t *testing.T) {
	tests := []struct {
		response Response
		expected string
	}{
		{
			NewResponse(Code(200), "image uploaded to as: s3://out/a.jpg"),
			`{"statusCode":200,"body":"{\"message\":\"image uploaded to as: s3://out/a.jpg\"}"}`,
		},
		{
			NewResponse("404", "The object does not exist: s3://in/a.jpg"),
			`{"statusCode":404,"body":"{\"message\":\"The object does not exist: s3://in/a.jpg\"}"}`,
		},
		{
			NewResponse("AccessDenied", "Failed to upload: s3://out/a.jpg"),
			`{"statusCode":"AccessDenied","body":"{\"message\":\"Failed to upload: s3://out/a.jpg\"}"}`,
		},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.response)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != tt.expected {
			t.Errorf("Marshal = %s, expected %s", data, tt.expected)
		}
	}
}

func TestStatusCode_UnmarshalJSON(t *testing.T) {
	var response Response
	if err := json.Unmarshal([]byte(`{"statusCode":500,"body":"{}"}`), &response); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if response.StatusCode != "500" {
		t.Errorf("Expected status 500, got %q", response.StatusCode)
	}

	if err := json.Unmarshal([]byte(`{"statusCode":"NoSuchBucket","body":"{}"}`), &response); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if response.StatusCode != "NoSuchBucket" {
		t.Errorf("Expected status NoSuchBucket, got %q", response.StatusCode)
	}
}

func TestResponse_Message(t *testing.T) {
	r := NewResponse(Code(500), `quote " and <tag>`)
	if got := r.Message(); got != `quote " and <tag>` {
		t.Errorf("Message() = %q", got)
	}
	if r.Succeeded() {
		t.Error("500 response should not be a success")
	}
	if !NewResponse(Code(200), "ok").Succeeded() {
		t.Error("200 response should be a success")
	}
	if (Response{Body: "not json"}).Message() != "" {
		t.Error("Expected empty message for malformed body")
	}
}
