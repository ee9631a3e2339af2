package usecase

import (
	"encoding/json"
	"net/url"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/xerrors"

	bCtx "github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/base/metrics"
	"github.com/x-xyz/pixel-relayer/domain"
)

var metOnce sync.Once
var met metrics.Service

type MetadataUseCaseCfg struct {
	HttpReader    domain.WebResourceReaderRepository
	IpfsReader    domain.WebResourceReaderRepository
	DataUriReader domain.WebResourceReaderRepository
}

type metadataUseCase struct {
	httpReader    domain.WebResourceReaderRepository
	ipfsReader    domain.WebResourceReaderRepository
	dataUriReader domain.WebResourceReaderRepository
}

func NewMetadataUseCase(cfg *MetadataUseCaseCfg) domain.MetadataUseCase {
	metOnce.Do(func() {
		met = metrics.New("metadata")
	})
	return &metadataUseCase{
		httpReader:    cfg.HttpReader,
		ipfsReader:    cfg.IpfsReader,
		dataUriReader: cfg.DataUriReader,
	}
}

func (u *metadataUseCase) Resolve(c bCtx.Ctx, uriOrJson string) (*domain.Metadata, error) {
	trimmed := strings.TrimSpace(uriOrJson)
	if pUrl, err := url.ParseRequestURI(trimmed); err == nil && pUrl.Scheme != "" {
		met.BumpSum("resolve", 1, "source", "url", "scheme", pUrl.Scheme)
		return u.fromUrl(c, pUrl, trimmed)
	}

	met.BumpSum("resolve", 1, "source", "inline")
	return parse(c, []byte(trimmed))
}

func (u *metadataUseCase) fromUrl(c bCtx.Ctx, pUrl *url.URL, rawUrl string) (*domain.Metadata, error) {
	var (
		data []byte
		err  error
	)

	switch pUrl.Scheme {
	case "http", "https":
		data, err = u.httpReader.Get(c, rawUrl)
	case "ipfs":
		data, err = u.ipfsReader.Get(c, strings.TrimPrefix(rawUrl, "ipfs://"))
	case "data":
		data, err = u.dataUriReader.Get(c, rawUrl)
	default:
		return nil, &domain.ResolveError{
			Kind:  domain.ResolveFetchFailed,
			Url:   rawUrl,
			Cause: xerrors.Errorf("scheme %q: %w", pUrl.Scheme, domain.ErrUnsupportedSchema),
		}
	}

	if err != nil {
		c.WithFields(log.Fields{
			"schema": pUrl.Scheme,
			"url":    rawUrl,
			"err":    err,
		}).Error("failed to fetch")
		var resolveErr *domain.ResolveError
		if xerrors.As(err, &resolveErr) {
			return nil, resolveErr
		}
		return nil, &domain.ResolveError{Kind: domain.ResolveFetchFailed, Url: rawUrl, Cause: err}
	}

	return parse(c, data)
}

func parse(c bCtx.Ctx, data []byte) (*domain.Metadata, error) {
	mime := mimetype.Detect(data)
	if !isAccepted(mime) {
		c.WithField("mime", mime.String()).Error("metadata is not json")
		return nil, &domain.ResolveError{
			Kind:  domain.ResolveParseFailed,
			Cause: xerrors.Errorf("content is %s, not json", mime.String()),
		}
	}

	m := &domain.Metadata{}
	if err := json.Unmarshal(data, m); err != nil {
		c.WithFields(log.Fields{"err": err, "mime": mime.String()}).Error("json.Unmarshal failed")
		return nil, &domain.ResolveError{Kind: domain.ResolveParseFailed, Cause: err}
	}
	if err := m.Validate(); err != nil {
		c.WithField("err", err).Error("metadata incomplete")
		return nil, &domain.ResolveError{Kind: domain.ResolveParseFailed, Cause: err}
	}
	return m, nil
}

// isAccepted is true for json and its subtypes, and for plain text which is what
// documents too large to sniff whole are detected as. html and binaries are refused.
func isAccepted(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("application/json") {
			return true
		}
	}
	return mime.Is("text/plain")
}
