package repository

import (
	"encoding/base64"
	"net/url"
	"strings"

	"golang.org/x/xerrors"

	"github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/domain"
)

const dataUriSchema = "data:"

type dataUriReaderRepo struct {
}

func NewDataUriReaderRepo() domain.WebResourceReaderRepository {
	return &dataUriReaderRepo{}
}

func (r *dataUriReaderRepo) Get(_ ctx.Ctx, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, dataUriSchema) {
		return nil, fetchFailed(uri, 0, xerrors.Errorf("invalid data uri"))
	}
	// data:[<mediatype>][;base64],<data>
	uriParts := strings.SplitN(strings.TrimPrefix(uri, dataUriSchema), ",", 2)
	if len(uriParts) < 2 || len(uriParts[1]) == 0 {
		return nil, fetchFailed(uri, 0, xerrors.Errorf("no data part provided"))
	}

	if strings.HasSuffix(uriParts[0], ";base64") {
		b, err := base64.StdEncoding.DecodeString(uriParts[1])
		if err != nil {
			return nil, fetchFailed(uri, 0, err)
		}
		return b, nil
	}
	// treat as percent encoded text
	text, err := url.PathUnescape(uriParts[1])
	if err != nil {
		return []byte(uriParts[1]), nil
	}
	return []byte(text), nil
}
