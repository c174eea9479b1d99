package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type captureProfile struct {
	Resolution     string  `json:"resolution"`
	FrameRate      int     `json:"frameRate"`
	BitrateKbps    int     `json:"bitrateKbps"`
	MaxDurationSec int     `json:"maxDurationSec"`
	CompressBefore bool    `json:"compressBeforeUpload"`
	ChunkSizeMB    float64 `json:"chunkSizeMB"`
}

// DeviceOptimization recommends capture and upload settings for the client's
// device class and network. Low-end phones on slow networks record smaller
// videos and compress before uploading.
func (h *Handler) DeviceOptimization(c echo.Context) error {
	ramMB := 0
	if v := c.QueryParam("ramMB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			ramMB = n
		}
	}
	network := c.QueryParam("network") // 2g, 3g, 4g, 5g, wifi

	p := captureProfile{
		Resolution:     "1280x720",
		FrameRate:      30,
		BitrateKbps:    4000,
		MaxDurationSec: 120,
		ChunkSizeMB:    8,
	}
	if ramMB > 0 && ramMB < 3072 {
		p.Resolution = "854x480"
		p.BitrateKbps = 1500
	}
	switch network {
	case "2g", "3g":
		p.Resolution = "640x360"
		p.FrameRate = 24
		p.BitrateKbps = 800
		p.CompressBefore = true
		p.ChunkSizeMB = 2
	case "4g":
		p.CompressBefore = ramMB > 0 && ramMB < 3072
		p.ChunkSizeMB = 4
	}
	return c.JSON(http.StatusOK, p)
}
