// Copyright (c) 2026 Alban-i
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Thumbnail bounds for admin list views.
const (
	ThumbWidth  = 320
	ThumbHeight = 320
)

// ProcessResult contains the result of processing an uploaded image.
type ProcessResult struct {
	Width    int
	Height   int
	MimeType string
	Size     int64
	FilePath string
	URLPath  string
}

// Processor handles image uploads and generated-image storage using pure
// Go libraries.
type Processor struct {
	uploadDir string
}

// NewProcessor creates an image processor rooted at uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// ProcessUpload reads an uploaded reference image, applies the EXIF
// orientation, re-encodes it (which also strips EXIF metadata) and saves
// it under originals/<id>/.
func (p *Processor) ProcessUpload(reader io.Reader, id, filename string) (*ProcessResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	processed, err := encodeImage(img, format, 95)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	subDir := filepath.Join("originals", id)
	filePath, err := p.saveImageFile(subDir, filename, processed)
	if err != nil {
		return nil, fmt.Errorf("saving original image: %w", err)
	}

	return &ProcessResult{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(processed)),
		FilePath: filePath,
		URLPath:  path(subDir, filename),
	}, nil
}

// SaveGenerated stores a generated PNG and its thumbnail under
// generated/<projectID>/. Returns the relative image and thumbnail paths.
func (p *Processor) SaveGenerated(data []byte, projectID, generationID string) (imagePath, thumbPath string, err error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("decoding generated image: %w", err)
	}

	subDir := filepath.Join("generated", projectID)
	name := generationID + ".png"
	if _, err := p.saveImageFile(subDir, name, data); err != nil {
		return "", "", fmt.Errorf("saving generated image: %w", err)
	}

	thumb := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)
	thumbData, err := encodeImage(thumb, "png", 0)
	if err != nil {
		return "", "", fmt.Errorf("encoding thumbnail: %w", err)
	}
	thumbName := generationID + "_thumb.png"
	if _, err := p.saveImageFile(subDir, thumbName, thumbData); err != nil {
		return "", "", fmt.Errorf("saving thumbnail: %w", err)
	}

	return path(subDir, name), path(subDir, thumbName), nil
}

// CreateThumbnail produces a bounded thumbnail next to the source file.
func (p *Processor) CreateThumbnail(sourcePath string) (string, error) {
	img, err := imaging.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("opening source image: %w", err)
	}

	thumb := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)
	ext := filepath.Ext(sourcePath)
	thumbPath := strings.TrimSuffix(sourcePath, ext) + "_thumb" + ext

	if err := imaging.Save(thumb, thumbPath); err != nil {
		return "", fmt.Errorf("saving thumbnail: %w", err)
	}
	return thumbPath, nil
}

// DeleteFiles removes all stored files for an upload or project id.
func (p *Processor) DeleteFiles(kind, id string) error {
	dir := filepath.Join(p.uploadDir, kind, id)
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s files: %w", kind, err)
	}
	return nil
}

// readExifOrientation reads the EXIF orientation tag. Returns 1 (normal)
// when the tag cannot be read.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation normalizes an image per its EXIF orientation value.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		// WebP decoding is supported but pure-Go encoding is not, so
		// everything non-PNG re-encodes as JPEG.
		if quality <= 0 {
			quality = 95
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// path builds the forward-slash relative path stored in the database.
func path(subDir, filename string) string {
	return filepath.ToSlash(filepath.Join(subDir, filename))
}

// saveImageFile creates the directory if needed and writes the file. The
// filename is sanitized and the target is validated to stay inside
// uploadDir.
func (p *Processor) saveImageFile(subDir, filename string, data []byte) (string, error) {
	safeFilename := filepath.Base(filename)
	if safeFilename == "." || safeFilename == ".." || safeFilename == "" {
		return "", fmt.Errorf("invalid filename")
	}

	cleanSubDir := filepath.Clean(subDir)
	if strings.Contains(cleanSubDir, "..") || filepath.IsAbs(cleanSubDir) {
		return "", fmt.Errorf("invalid subdirectory path")
	}

	absBase, err := filepath.Abs(p.uploadDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}
	absTarget := filepath.Join(absBase, cleanSubDir)

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(absTarget, 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	filePath := filepath.Join(absTarget, safeFilename)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return filePath, nil
}
