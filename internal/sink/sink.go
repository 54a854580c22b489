// Package sink writes rendered charts to disk.
package sink

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// FileName is the name the bot's UI looks for in the images directory.
const FileName = "sensor_data_plot.png"

// Encode writes img as PNG. *image.Gray encodes as 8-bit grayscale.
func Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Save writes img to dir/FileName and returns the path. The file is written
// under a temporary name and renamed so readers never see a partial image.
func Save(dir string, img image.Image) (string, error) {
	path := filepath.Join(dir, FileName)

	tmp, err := os.CreateTemp(dir, ".plot-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := Encode(tmp, img); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}
	return path, nil
}
