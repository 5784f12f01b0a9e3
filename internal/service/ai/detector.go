package ai

import (
	"image"
	"os"

	"anonymizer/internal/detection"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Artifacts names the three files a detector is built from.
type Artifacts struct {
	Weights  string
	Topology string
	Classes  string
}

// Network runs one forward pass and returns the raw output rows of every
// unconnected output layer.
type Network interface {
	Forward(img gocv.Mat, params detection.Params) ([][]float32, error)
	Close() error
}

// Loader builds a detector from model artifacts.
type Loader interface {
	Load(artifacts Artifacts) (*Detector, error)
}

// Detector pairs a network with the class list it was trained on.
type Detector struct {
	Net     Network
	Classes detection.Classes
}

// NewDetector wraps an already loaded network.
func NewDetector(net Network, classes detection.Classes) *Detector {
	return &Detector{Net: net, Classes: classes}
}

// Detect runs the network over img and decodes candidates above the confidence threshold.
func (d *Detector) Detect(img gocv.Mat, params detection.Params) ([]detection.Candidate, error) {
	if img.Empty() {
		return nil, errors.New("image is empty")
	}

	rows, err := d.Net.Forward(img, params)
	if err != nil {
		return nil, errors.Wrap(err, "forward pass failed")
	}

	return detection.Decode(rows, img.Cols(), img.Rows(), params.ConfidenceThreshold), nil
}

// Close releases the network.
func (d *Detector) Close() error {
	return d.Net.Close()
}

// DarknetLoader reads networks with OpenCV's DNN module.
type DarknetLoader struct{}

// Load reads the class list and the network. Both are read fresh on every call.
func (DarknetLoader) Load(artifacts Artifacts) (*Detector, error) {
	classes, err := detection.LoadClasses(artifacts.Classes)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(artifacts.Weights); err != nil {
		return nil, errors.Wrap(err, "model weights not found")
	}
	if _, err := os.Stat(artifacts.Topology); err != nil {
		return nil, errors.Wrap(err, "model config not found")
	}

	net := gocv.ReadNet(artifacts.Weights, artifacts.Topology)
	if net.Empty() {
		return nil, errors.Errorf("failed to load network from %s", artifacts.Weights)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, errors.New("failed to set preferable backend or target")
	}

	return NewDetector(&cvNetwork{net: net}, classes), nil
}

type cvNetwork struct {
	net gocv.Net
}

func (n *cvNetwork) Forward(img gocv.Mat, params detection.Params) ([][]float32, error) {
	size := image.Pt(params.InputSize, params.InputSize)
	blob := gocv.BlobFromImage(img, params.InputScale, size, gocv.NewScalar(0, 0, 0, 0), params.SwapRB, params.Crop)
	defer blob.Close()

	n.net.SetInput(blob, "")

	outs := n.net.ForwardLayers(outputLayerNames(&n.net))
	defer func() {
		for _, out := range outs {
			out.Close()
		}
	}()

	var rows [][]float32
	for _, out := range outs {
		data, err := out.DataPtrFloat32()
		if err != nil {
			return nil, errors.Wrap(err, "can't read output layer")
		}
		cols := out.Cols()
		if cols == 0 {
			continue
		}
		for r := 0; r < out.Rows(); r++ {
			row := make([]float32, cols)
			copy(row, data[r*cols:(r+1)*cols])
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (n *cvNetwork) Close() error {
	return n.net.Close()
}

// outputLayerNames returns the names of the layers with unconnected outputs.
func outputLayerNames(net *gocv.Net) []string {
	var names []string
	for _, id := range net.GetUnconnectedOutLayers() {
		layer := net.GetLayer(id)
		if name := layer.GetName(); name != "_input" {
			names = append(names, name)
		}
		layer.Close()
	}
	return names
}
