package unboundedhttp

import (
	"context"
	"net/http"
	"strings"
	"time"
)

func Fetch(url string) {
	_, _ = http.Get(url)                             // want "http.Get has no timeout, use a configured http.Client"
	_, _ = http.Post(url, "application/json", nil)   // want "http.Post has no timeout, use a configured http.Client"
	_, _ = http.PostForm(url, nil)                   // want "http.PostForm has no timeout, use a configured http.Client"
	_, _ = http.Head(url)                            // want "http.Head has no timeout, use a configured http.Client"
	_, _ = http.DefaultClient.Get(url)               // want "http.DefaultClient has no timeout, use a configured http.Client"
	_, _ = http.NewRequest(http.MethodGet, url, nil) // want "http.NewRequest drops cancellation, use http.NewRequestWithContext"
	_ = strings.NewReader(url)                       // No want
}

func FetchBounded(ctx context.Context, url string) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil) // No want
	if err != nil {
		return
	}
	resp, err := client.Do(req) // No want
	if err != nil {
		return
	}
	_ = resp.Body.Close()
}
