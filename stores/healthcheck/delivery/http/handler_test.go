package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/pixel-relayer/domain"
	hcdomain "github.com/x-xyz/pixel-relayer/domain/healthcheck"
	"github.com/x-xyz/pixel-relayer/domain/mocks"
	"github.com/x-xyz/pixel-relayer/middleware"
	"github.com/x-xyz/pixel-relayer/stores/healthcheck/repository"
	"github.com/x-xyz/pixel-relayer/stores/healthcheck/usecase"
)

type relayState bool

func (p relayState) Running() bool { return bool(p) }

var bridge = &domain.BridgeConfig{
	Chains: []domain.SourceChain{
		{ChainId: domain.ChainIdEthereum},
		{ChainId: domain.ChainIdAptos},
	},
}

func serve(t *testing.T, repo domain.WatermarkRepo, running bool, path string) (*httptest.ResponseRecorder, *hcdomain.Report) {
	e := echo.New()
	e.Use(middleware.InitMiddleware().AddContext())
	New(e, usecase.New(repository.New(repo), relayState(running), bridge))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code == http.StatusNoContent {
		return rec, nil
	}
	report := &hcdomain.Report{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), report))
	return rec, report
}

func TestHealthy(t *testing.T) {
	updatedAt := time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)
	repo := mocks.NewWatermarkRepo(t)
	repo.On("Get", mock.Anything, domain.ChainIdEthereum).Return(nil, domain.ErrNotFound).Once()
	repo.On("Get", mock.Anything, domain.ChainIdAptos).Return(&domain.SequenceWatermark{
		ChainId:               domain.ChainIdAptos,
		LastProcessedSequence: 41,
		UpdatedAt:             updatedAt,
	}, nil).Once()

	rec, report := serve(t, repo, true, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, report.Healthy)
	require.Equal(t, hcdomain.StatusOk, report.Relay)
	require.Len(t, report.Chains, 2)
	require.Nil(t, report.Chains[0].UpdatedAt)
	require.Equal(t, uint64(41), report.Chains[1].LastProcessedSequence)
	require.True(t, updatedAt.Equal(*report.Chains[1].UpdatedAt))
}

func TestStoreDown(t *testing.T) {
	repo := mocks.NewWatermarkRepo(t)
	repo.On("Get", mock.Anything, domain.ChainIdEthereum).Return(nil, errors.New("connection refused")).Once()

	rec, report := serve(t, repo, true, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.False(t, report.Healthy)
	require.Contains(t, report.Store, "connection refused")
}

func TestRelayStopped(t *testing.T) {
	repo := mocks.NewWatermarkRepo(t)
	repo.On("Get", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound).Twice()

	rec, report := serve(t, repo, false, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, hcdomain.StatusStopped, report.Relay)
	require.Equal(t, hcdomain.StatusOk, report.Store)
}

func TestLive(t *testing.T) {
	rec, _ := serve(t, mocks.NewWatermarkRepo(t), false, "/health/live")
	require.Equal(t, http.StatusNoContent, rec.Code)
}
