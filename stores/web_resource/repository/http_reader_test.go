package repository

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

func Test_httpReaderRepo_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/meta.json":
			require.Equal(t, "relayer", r.Header.Get("User-Agent"))
			w.Write([]byte(`{"name":"X","description":"Y","image":"Z"}`))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := bCtx.Background()
	r := NewHttpReaderRepo(http.Client{}, 50*time.Millisecond, map[string]string{"User-Agent": "relayer"})

	t.Run("ok", func(t *testing.T) {
		req := require.New(t)
		b, err := r.Get(ctx, srv.URL+"/meta.json")
		req.NoError(err)
		req.Equal(`{"name":"X","description":"Y","image":"Z"}`, string(b))
	})

	t.Run("not found", func(t *testing.T) {
		req := require.New(t)
		_, err := r.Get(ctx, srv.URL+"/missing")
		var resolveErr *domain.ResolveError
		req.True(errors.As(err, &resolveErr))
		req.Equal(domain.ResolveFetchFailed, resolveErr.Kind)
		req.Equal(http.StatusNotFound, resolveErr.StatusCode)
	})

	t.Run("timeout", func(t *testing.T) {
		req := require.New(t)
		_, err := r.Get(ctx, srv.URL+"/slow")
		var resolveErr *domain.ResolveError
		req.True(errors.As(err, &resolveErr))
		req.Equal(0, resolveErr.StatusCode)
		req.True(errors.Is(err, domain.ErrFetchFailed))
	})

	t.Run("unreachable", func(t *testing.T) {
		req := require.New(t)
		_, err := r.Get(ctx, "http://127.0.0.1:1/meta.json")
		req.True(errors.Is(err, domain.ErrFetchFailed))
	})
}
