package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegistered(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	parsed := struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]interface{} `json:"paths"`
	}{}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	require.Equal(t, "Pixel Relayer API", parsed.Info.Title)
	for _, path := range []string{"/attestations", "/attestations/vaa", "/health", "/health/live"} {
		require.Contains(t, parsed.Paths, path)
	}
}
