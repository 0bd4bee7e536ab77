package security

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// ImageProber は画像URLが実在し、画像を返すことをHEADリクエストで確認する。
type ImageProber struct {
	client *http.Client
}

// NewImageProber はSSRF防止付きクライアントを使うImageProberを生成する。
func NewImageProber(guard *URLGuard, timeout time.Duration) *ImageProber {
	return &ImageProber{client: guard.NewSafeClient(timeout)}
}

// Probe はURLにHEADリクエストを送り、2xxかつ画像のContent-Typeであることを確認する。
// Content-Typeが返らない場合は受け入れる。
func (p *ImageProber) Probe(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "cartify-image-probe/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("image unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("image returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("not an image: %s", contentType)
	}

	return nil
}
