package domain

type CameraState struct {
	On bool `json:"on"`
}
