package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerworks/safetytraining/backend/internal/adapters/cache"
	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// newTestExtractor builds an extractor without a cache. A nil *MemoryAdapter
// must stay a nil interface here, otherwise the extractor's cache guard sees a
// non-nil value wrapping a nil receiver.
func newTestExtractor(cacheAdapter *cache.MemoryAdapter) *Extractor {
	var cp providers.CacheProvider
	if cacheAdapter != nil {
		cp = cacheAdapter
	}
	return NewExtractorWithOptions("test-agent", cp, &http.Client{})
}

func TestExtractText_PlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("Always wear eye protection.\n"))
	}))
	defer server.Close()

	extractor := newTestExtractor(nil)
	text, err := extractor.ExtractText(context.Background(), server.URL+"/manual.txt")

	require.NoError(t, err)
	assert.Equal(t, "Always wear eye protection.", text)
}

func TestExtractText_NoExtensionBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Step 1: power down the unit."))
	}))
	defer server.Close()

	extractor := newTestExtractor(nil)
	text, err := extractor.ExtractText(context.Background(), server.URL+"/manual")

	require.NoError(t, err)
	assert.Equal(t, "Step 1: power down the unit.", text)
}

func TestExtractText_UnsupportedFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0x00, 0x01})
	}))
	defer server.Close()

	extractor := newTestExtractor(nil)
	_, err := extractor.ExtractText(context.Background(), server.URL+"/manual.xlsx")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnsupportedFormat))
	assert.Contains(t, err.Error(), "/manual.xlsx")
}

func TestExtractText_ExtensionCaseAndQueryIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("content"))
	}))
	defer server.Close()

	extractor := newTestExtractor(nil)
	text, err := extractor.ExtractText(context.Background(), server.URL+"/manual.TXT?version=2")

	require.NoError(t, err)
	assert.Equal(t, "content", text)
}

func TestExtractText_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   \n\t "))
	}))
	defer server.Close()

	extractor := newTestExtractor(nil)
	_, err := extractor.ExtractText(context.Background(), server.URL+"/manual.txt")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeEmptyContent))
}

func TestExtractText_FetchFailureCarriesURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	extractor := newTestExtractor(nil)
	_, err := extractor.ExtractText(context.Background(), server.URL+"/manual.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), server.URL)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractText_CacheHitSkipsFetch(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Write([]byte("cached body"))
	}))
	defer server.Close()

	cacheAdapter := cache.NewMemoryAdapter()
	extractor := newTestExtractor(cacheAdapter)
	manualURL := server.URL + "/manual.txt"

	first, err := extractor.ExtractText(context.Background(), manualURL)
	require.NoError(t, err)

	second, err := extractor.ExtractText(context.Background(), manualURL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetches)
}

func TestExtractText_NoCacheRefetches(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Write([]byte("uncached body"))
	}))
	defer server.Close()

	extractor := newTestExtractor(nil)
	manualURL := server.URL + "/manual.txt"

	for i := 0; i < 2; i++ {
		text, err := extractor.ExtractText(context.Background(), manualURL)
		require.NoError(t, err)
		assert.Equal(t, "uncached body", text)
	}
	assert.Equal(t, 2, fetches)
}

func TestRewriteLinkedDocURL_Published(t *testing.T) {
	u, _ := url.Parse("https://docs.google.com/document/d/e/2PACX-abc123/pub?embedded=true")

	rewritten, err := rewriteLinkedDocURL(u)

	require.NoError(t, err)
	assert.Contains(t, rewritten, "/pub")
	assert.Contains(t, rewritten, "output=txt")
	assert.NotContains(t, rewritten, "embedded")
}

func TestRewriteLinkedDocURL_Edit(t *testing.T) {
	u, _ := url.Parse("https://docs.google.com/document/d/1AbC_dEf-123/edit?usp=sharing")

	rewritten, err := rewriteLinkedDocURL(u)

	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/document/d/1AbC_dEf-123/export?format=txt", rewritten)
}

func TestStripHTML(t *testing.T) {
	body := `<!DOCTYPE html>
<html><head><style>body { color: red; }</style><script>alert("x");</script></head>
<body><h1>Laser Cutter</h1><p>Never leave the  machine &amp; beam unattended.</p></body></html>`

	text := StripHTML(body)

	assert.Equal(t, "Laser Cutter Never leave the machine & beam unattended.", text)
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color")
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, looksLikeHTML("<!DOCTYPE html><html></html>"))
	assert.True(t, looksLikeHTML("  <html><body></body></html>"))
	assert.False(t, looksLikeHTML("plain text body"))
}
