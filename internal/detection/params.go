package detection

const (
	// ConfidenceThreshold is the exclusive lower bound a detection score must exceed.
	ConfidenceThreshold = 0.5
	// NMSThreshold is the IoU above which a lower-scored box is suppressed.
	NMSThreshold = 0.4
	// InputSize is the square network input edge in pixels.
	InputSize = 416
	// InputScale maps 8-bit pixel values into [0, 1].
	InputScale = 1.0 / 255.0
)

// KernelStep selects Kernel once either box side exceeds MinSide pixels.
type KernelStep struct {
	MinSide int
	Kernel  int
}

// Params holds the tunable constants of the detect, suppress and blur stages.
type Params struct {
	ConfidenceThreshold float64
	NMSThreshold        float64
	InputSize           int
	InputScale          float64
	SwapRB              bool
	Crop                bool

	// AnonymizeClasses lists the labels that get blurred.
	AnonymizeClasses []string
	// BaseKernel is used when no step in KernelLadder applies.
	BaseKernel   int
	KernelLadder []KernelStep

	// Annotate outlines retained detections that are not blurred.
	Annotate bool
}

// DefaultParams returns the stock YOLOv3 settings.
func DefaultParams() Params {
	return Params{
		ConfidenceThreshold: ConfidenceThreshold,
		NMSThreshold:        NMSThreshold,
		InputSize:           InputSize,
		InputScale:          InputScale,
		SwapRB:              true,
		Crop:                false,
		AnonymizeClasses:    []string{"person", "car", "bus", "truck"},
		BaseKernel:          9,
		KernelLadder: []KernelStep{
			{MinSide: 100, Kernel: 11},
			{MinSide: 200, Kernel: 13},
			{MinSide: 300, Kernel: 27},
		},
	}
}

// ShouldAnonymize reports whether label is on the blur allow-list.
func (p Params) ShouldAnonymize(label string) bool {
	for _, class := range p.AnonymizeClasses {
		if class == label {
			return true
		}
	}
	return false
}

// KernelSize picks the median blur aperture for a box of the given size.
// Steps are checked in order so the last matching step wins.
func (p Params) KernelSize(width, height int) int {
	kernel := p.BaseKernel
	for _, step := range p.KernelLadder {
		if height > step.MinSide || width > step.MinSide {
			kernel = step.Kernel
		}
	}
	return kernel
}
