package models

type CompressPhotoRequest struct {
	Image    string `json:"image"` // Base64 encoded image
	MinBytes int    `json:"min_bytes"`
	MaxBytes int    `json:"max_bytes"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Search   string `json:"search,omitempty"` // "descent" (default) or "bisect"
}

type CompressPhotoResponse struct {
	Image   string `json:"image"` // Base64 encoded JPEG
	Size    int    `json:"size"`
	Quality int    `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	InBand  bool   `json:"in_band"`
}

type EnhanceScanRequest struct {
	Image string `json:"image"` // Base64 encoded image
}

type EnhanceScanResponse struct {
	Image string `json:"image"` // Base64 encoded JPEG
}
