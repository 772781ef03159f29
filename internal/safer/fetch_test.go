package safer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherSubmitsRegistryForm(t *testing.T) {
	var gotForm map[string]string
	var gotUA, gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"searchtype":   r.PostFormValue("searchtype"),
			"query_type":   r.PostFormValue("query_type"),
			"query_param":  r.PostFormValue("query_param"),
			"query_string": r.PostFormValue("query_string"),
		}
		gotUA = r.Header.Get("User-Agent")
		gotContentType = r.Header.Get("Content-Type")

		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte(`<html><head><title>Company Snapshot</title></head><body></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	page, err := f.Fetch(context.Background(), Query{Kind: KindDOT, Value: "223672"})
	require.NoError(t, err)

	assert.Equal(t, PageSnapshot, Classify(page))
	assert.Equal(t, "ANY", gotForm["searchtype"])
	assert.Equal(t, "queryCarrierSnapshot", gotForm["query_type"])
	assert.Equal(t, "USDOT", gotForm["query_param"])
	assert.Equal(t, "223672", gotForm["query_string"])
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestFetcherNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone away", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	_, err := f.Fetch(context.Background(), Query{Kind: KindName, Value: "ACME"})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
}

func TestFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	f := NewFetcher(WithBaseURL(srv.URL))
	_, err := f.Fetch(context.Background(), Query{Kind: KindName, Value: "ACME"})
	require.Error(t, err)

	var upstreamErr *UpstreamError
	assert.False(t, errors.As(err, &upstreamErr))
}

func TestFetcherContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(WithBaseURL(srv.URL))
	_, err := f.Fetch(ctx, Query{Kind: KindName, Value: "ACME"})
	require.Error(t, err)
}

func TestFetcherCustomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithUserAgent("carriercheck-test/1.0"))
	_, err := f.Fetch(context.Background(), Query{Kind: KindName, Value: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "carriercheck-test/1.0", gotUA)
}
