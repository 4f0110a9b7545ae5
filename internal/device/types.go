package device

import "math"

// Segment is one detected rebar segment in a capture session.
// Dimensions and volume are computed on the device; the client only
// displays them. SectionID is a display key and is not guaranteed
// unique across sessions.
type Segment struct {
	SectionID int     `json:"section_id"`
	VolumeCc  float64 `json:"volume_cc"`
	WidthCm   float64 `json:"width_cm"`
	LengthCm  float64 `json:"length_cm"`
	HeightCm  float64 `json:"height_cm"`
}

// LatestData is the device's summary of the most recent capture session.
// Segments and totals are absent until at least one capture has run.
type LatestData struct {
	Connected   bool      `json:"connected"`
	Timestamp   string    `json:"timestamp,omitempty"`
	Segments    []Segment `json:"segments,omitempty"`
	TotalVolume float64   `json:"total_volume,omitempty"`
	HasImage    bool      `json:"has_image,omitempty"`
}

// Settings is the device-side configuration the client can read and write.
type Settings struct {
	DetectionThreshold float64 `json:"detection_threshold"`
	CameraEnabled      bool    `json:"camera_enabled"`
}

// Detection threshold bounds and step granularity accepted by the device.
const (
	ThresholdMin  = 0.1
	ThresholdMax  = 0.9
	ThresholdStep = 0.05
)

// NormalizeThreshold snaps a detection threshold onto the device's
// 0.05 grid and clamps it into [0.1, 0.9].
func NormalizeThreshold(v float64) float64 {
	v = math.Round(v/ThresholdStep) * ThresholdStep
	if v < ThresholdMin {
		v = ThresholdMin
	}
	if v > ThresholdMax {
		v = ThresholdMax
	}
	// Round away accumulated float noise (e.g. 0.30000000000000004).
	return math.Round(v*100) / 100
}
