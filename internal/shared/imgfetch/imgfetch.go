// Package imgfetch resuelve URLs de fotos a bytes decodificables con sus
// dimensiones intrínsecas, para incrustarlas en documentos.
package imgfetch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// LoadedImage imagen decodificable junto con su formato y dimensiones
type LoadedImage struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Loader resuelve la URL de una foto a su contenido
type Loader interface {
	Load(ctx context.Context, url string) (*LoadedImage, error)
}

// maxImageBytes límite defensivo por foto
const maxImageBytes = 32 << 20

// HTTPLoader descarga fotos por HTTP(S)
type HTTPLoader struct {
	client *http.Client
}

func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{client: &http.Client{Timeout: timeout}}
}

func (l *HTTPLoader) Load(ctx context.Context, url string) (*LoadedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	return decode(resp.Body)
}

func decode(r io.Reader) (*LoadedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &LoadedImage{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
