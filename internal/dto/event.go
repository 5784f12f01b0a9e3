package dto

import "time"

// Event reports a finished invocation to websocket viewers and MQTT subscribers.
type Event struct {
	ID         string    `json:"id"`
	Request    Request   `json:"request"`
	Response   Response  `json:"response"`
	Detections int       `json:"detections"`
	Blurred    int       `json:"blurred"`
	Time       time.Time `json:"time"`
}
