package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// probeTestServer は指定ステータスとContent-Typeを返すテストサーバーを起動する。
// 本番のProberはループバックをブロックするため、テストでは通常のクライアントを使う。
func probeTestServer(t *testing.T, status int, contentType string) (*ImageProber, string) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(ts.Close)
	return &ImageProber{client: ts.Client()}, ts.URL + "/tee.jpg"
}

func TestImageProber_Probe_Image(t *testing.T) {
	p, url := probeTestServer(t, http.StatusOK, "image/jpeg")

	if err := p.Probe(context.Background(), url); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestImageProber_Probe_NoContentTypeAccepted(t *testing.T) {
	p, url := probeTestServer(t, http.StatusNoContent, "")

	if err := p.Probe(context.Background(), url); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestImageProber_Probe_NotFound(t *testing.T) {
	p, url := probeTestServer(t, http.StatusNotFound, "text/html")

	if err := p.Probe(context.Background(), url); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestImageProber_Probe_NotAnImage(t *testing.T) {
	p, url := probeTestServer(t, http.StatusOK, "text/html; charset=utf-8")

	if err := p.Probe(context.Background(), url); err == nil {
		t.Fatal("expected error for non-image content type")
	}
}

func TestImageProber_SafeClientBlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	}))
	defer ts.Close()

	p := NewImageProber(NewURLGuard(), 0)
	if err := p.Probe(context.Background(), ts.URL); err == nil {
		t.Fatal("expected loopback probe to be blocked")
	}
}
