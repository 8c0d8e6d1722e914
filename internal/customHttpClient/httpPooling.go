package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/spevenexe/S25-NLP-project/internal/config"
)

var (
	once   sync.Once
	client *http.Client
)

// GetClient returns the shared pooled client handed to the LLM and embedding SDKs.
// Per-call deadlines come from the request context.
func GetClient() *http.Client {
	once.Do(func() {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConns = config.MaxIdleConns
		transport.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
		transport.IdleConnTimeout = config.IdleConnTimeout
		client = &http.Client{Transport: transport}
	})
	return client
}
