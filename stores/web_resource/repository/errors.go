package repository

import (
	"github.com/x-xyz/pixel-relayer/domain"
)

// maxBodySize bounds what a reader keeps of a response
const maxBodySize = 4 << 20

func fetchFailed(url string, statusCode int, cause error) error {
	return &domain.ResolveError{
		Kind:       domain.ResolveFetchFailed,
		StatusCode: statusCode,
		Url:        url,
		Cause:      cause,
	}
}
