package model

//nolint:tagliatelle // matches the published asset index
type TrackAsset struct {
	TrackID int               `json:"trackId"`
	BaseURL string            `json:"baseUrl"`
	Layers  map[string]string `json:"layers"`
}
