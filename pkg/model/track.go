package model

type DbTrack struct {
	ID   int       `json:"id"`
	Data TrackInfo `json:"data"`
}

//nolint:tagliatelle //different structs need to be mapped
type TrackInfo struct {
	ID        int     `json:"trackId"`
	Name      string  `json:"trackDisplayName"`
	ShortName string  `json:"trackDisplayShortName"`
	Config    string  `json:"trackConfigName"`
	Length    float64 `json:"trackLength"`
}
