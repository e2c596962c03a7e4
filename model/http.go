package model

type DecodeResponse struct {
	Song     *Song    `json:"song"`
	Warnings []string `json:"warnings"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

type MetadataRequestBody struct {
	Paths []string `json:"paths"`
}

type SongsResponse struct {
	Songs  []SongSummary `json:"songs"`
	Failed []string      `json:"failed,omitempty"`
}
