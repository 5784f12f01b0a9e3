package dto

// Request is one anonymization invocation.
type Request struct {
	ID            string `json:"id,omitempty"`
	Image         string `json:"image"`
	FilteredImage string `json:"filtered_image"`

	// Optional overrides of the configured model artifacts.
	Config  string `json:"config,omitempty"`
	Weights string `json:"weights,omitempty"`
	Classes string `json:"classes,omitempty"`
}
