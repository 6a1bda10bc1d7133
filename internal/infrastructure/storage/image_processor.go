package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Dimensioni (px, lato lungo) delle varianti avatar generate.
const (
	AvatarFullSize  = 512
	AvatarThumbSize = 128
)

// ImageProcessor valida e normalizza le immagini caricate dagli utenti.
// Qualunque formato accettato viene riconvertito in JPEG.
type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 2 * 1024 * 1024} // 2MB
}

// ValidateImage accetta solo JPEG/PNG entro MaxSize. Decodifica solo
// l'header, non l'immagine intera.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// ProcessAvatar ridimensiona e ricodifica in JPEG qualità 90.
// Ritorna map[variant][]byte con le varianti "full" e "thumb".
func (p *ImageProcessor) ProcessAvatar(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	sizes := map[string]int{
		"full":  AvatarFullSize,
		"thumb": AvatarThumbSize,
	}
	variants := map[string][]byte{}
	for name, size := range sizes {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode %s variant: %w", name, err)
		}
		variants[name] = b.Bytes()
	}
	return variants, nil
}
