package imgfetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// MinioLoader resuelve fotos almacenadas en el bucket propio. Las URLs
// internas tienen la forma minio://<objeto>; el resto se delega al
// cargador HTTP.
type MinioLoader struct {
	client *minio.Client
	bucket string
	next   Loader
}

const minioScheme = "minio://"

func NewMinioLoader(client *minio.Client, bucket string, next Loader) *MinioLoader {
	return &MinioLoader{client: client, bucket: bucket, next: next}
}

func (l *MinioLoader) Load(ctx context.Context, url string) (*LoadedImage, error) {
	if !strings.HasPrefix(url, minioScheme) {
		if l.next != nil {
			return l.next.Load(ctx, url)
		}
		return nil, fmt.Errorf("unsupported image url %q", url)
	}
	key := strings.TrimPrefix(url, minioScheme)
	obj, err := l.client.GetObject(ctx, l.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}
	defer obj.Close()
	return decode(obj)
}
