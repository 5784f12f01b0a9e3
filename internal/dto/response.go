package dto

import (
	"encoding/json"
	"strconv"
)

// StatusCode is an HTTP-like status or a provider error code such as "AccessDenied".
// Numeric codes are written as JSON numbers, everything else as strings.
type StatusCode string

// Code converts an integer status into a StatusCode.
func Code(status int) StatusCode {
	return StatusCode(strconv.Itoa(status))
}

// Int returns the numeric value of the code, if it has one.
func (c StatusCode) Int() (int, bool) {
	n, err := strconv.Atoi(string(c))
	return n, err == nil
}

func (c StatusCode) MarshalJSON() ([]byte, error) {
	if n, ok := c.Int(); ok {
		return json.Marshal(n)
	}
	return json.Marshal(string(c))
}

func (c *StatusCode) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Code(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = StatusCode(s)
	return nil
}

// Body is the payload encoded into Response.Body.
type Body struct {
	Message string `json:"message"`
}

// Response is the structured result of an invocation. Body holds a JSON string.
type Response struct {
	StatusCode StatusCode `json:"statusCode"`
	Body       string     `json:"body"`
}

// NewResponse builds a Response with the message JSON-encoded into the body.
func NewResponse(code StatusCode, message string) Response {
	body, _ := json.Marshal(Body{Message: message})
	return Response{StatusCode: code, Body: string(body)}
}

// Message decodes the message out of the body. Returns "" for a malformed body.
func (r Response) Message() string {
	var body Body
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		return ""
	}
	return body.Message
}

// Succeeded reports whether the response carries status 200.
func (r Response) Succeeded() bool {
	n, ok := r.StatusCode.Int()
	return ok && n == 200
}
