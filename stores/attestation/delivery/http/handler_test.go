package http

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/vaa"
	bValidator "github.com/x-xyz/pixel-relayer/base/validator"
	"github.com/x-xyz/pixel-relayer/domain"
	"github.com/x-xyz/pixel-relayer/domain/mocks"
	"github.com/x-xyz/pixel-relayer/middleware"
	authUsecase "github.com/x-xyz/pixel-relayer/stores/auth/usecase"
)

var emitter = domain.MustHexToHash32("0x7c0e3a9f1d2b4c5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6")

type handlerSuite struct {
	suite.Suite
	e       *echo.Echo
	handler *mocks.MessageHandler
	source  *Source
	token   string
	cancel  func()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	auth := authUsecase.New("secret")
	tkn, err := auth.SignToken(ctx.Background(), "spy", time.Hour)
	s.Require().NoError(err)
	s.token = tkn

	s.e = echo.New()
	s.e.Validator = bValidator.NewCustomValidator(bValidator.New())
	s.e.Use(middleware.InitMiddleware().AddContext())
	s.source, err = New(s.e, auth)
	s.Require().NoError(err)

	s.handler = mocks.NewMessageHandler(s.T())
	c, cancel := ctx.WithCancel(ctx.Background())
	s.cancel = cancel
	s.Require().NoError(s.source.Start(c, s.handler))
}

func (s *handlerSuite) TearDownTest() {
	s.cancel()
	s.source.Wait()
}

func (s *handlerSuite) do(path, contentType string, body []byte, withToken bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, contentType)
	if withToken {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func testVaa() *vaa.VAA {
	return &vaa.VAA{
		Version:          1,
		GuardianSetIndex: 3,
		Signatures:       []vaa.Signature{{Index: 0}},
		Timestamp:        time.Unix(1700000000, 0).UTC(),
		EmitterChain:     domain.ChainIdAptos,
		EmitterAddress:   emitter,
		Sequence:         42,
		ConsistencyLevel: 1,
		Payload:          []byte{0x01, 0x02},
	}
}

func (s *handlerSuite) TestSubmitJson() {
	expected := &domain.AttestedMessage{
		SourceChainId:  domain.ChainIdAptos,
		Sequence:       5,
		EmitterAddress: emitter,
		Payload:        []byte{0xaa, 0xbb},
		SourceTxHash:   "0x99",
	}
	s.handler.On("OnMessage", mock.Anything, expected).Return(nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"chainId":        22,
		"sequence":       5,
		"emitterAddress": emitter.Hex(),
		"payload":        "0xaabb",
		"sourceTxHash":   "0x99",
	})
	rec := s.do("/attestations", echo.MIMEApplicationJSON, body, true)
	s.Equal(http.StatusAccepted, rec.Code)
	s.Contains(rec.Body.String(), `"id":"22/5"`)
	s.NotEmpty(rec.Header().Get(echo.HeaderXRequestID))
}

func (s *handlerSuite) TestSubmitJsonVaa() {
	s.handler.On("OnMessage", mock.Anything, testVaa().Message("0x01")).Return(nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"vaa":          hex.EncodeToString(testVaa().Marshal()),
		"sourceTxHash": "0x01",
	})
	rec := s.do("/attestations", echo.MIMEApplicationJSON, body, true)
	s.Equal(http.StatusAccepted, rec.Code)
	s.Contains(rec.Body.String(), `"id":"22/42"`)
}

func (s *handlerSuite) TestSubmitRawVaa() {
	s.handler.On("OnMessage", mock.Anything, testVaa().Message("0xfeed")).Return(nil).Once()

	rec := s.do("/attestations/vaa?txHash=0xfeed", echo.MIMEOctetStream, testVaa().Marshal(), true)
	s.Equal(http.StatusAccepted, rec.Code)
}

func (s *handlerSuite) TestMissingFields() {
	body, _ := json.Marshal(map[string]interface{}{
		"chainId": 22,
		"payload": "0xaabb",
	})
	rec := s.do("/attestations", echo.MIMEApplicationJSON, body, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestBadVaa() {
	rec := s.do("/attestations/vaa", echo.MIMETextPlain, []byte("0x0102"), true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *handlerSuite) TestUnauthorized() {
	rec := s.do("/attestations/vaa", echo.MIMEOctetStream, testVaa().Marshal(), false)
	s.Contains([]int{http.StatusBadRequest, http.StatusUnauthorized}, rec.Code)

	s.token = "not-a-token"
	rec = s.do("/attestations/vaa", echo.MIMEOctetStream, testVaa().Marshal(), true)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *handlerSuite) TestTerminalRejection() {
	s.handler.On("OnMessage", mock.Anything, mock.Anything).Return(domain.ErrUntrustedEmitter).Once()

	rec := s.do("/attestations/vaa", echo.MIMEOctetStream, testVaa().Marshal(), true)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	s.True(strings.Contains(rec.Body.String(), `"status":"fail"`))
}

func (s *handlerSuite) TestStopped() {
	s.cancel()
	s.source.Wait()

	rec := s.do("/attestations/vaa", echo.MIMEOctetStream, testVaa().Marshal(), true)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *handlerSuite) TestUnsignedVaa() {
	unsigned := testVaa()
	unsigned.Signatures = nil

	rec := s.do("/attestations/vaa", echo.MIMEOctetStream, unsigned.Marshal(), true)
	s.Equal(http.StatusBadRequest, rec.Code)

	body, _ := json.Marshal(map[string]interface{}{"vaa": hex.EncodeToString(unsigned.Marshal())})
	rec = s.do("/attestations", echo.MIMEApplicationJSON, body, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestNewRequiresAuth(t *testing.T) {
	e := echo.New()
	source, err := New(e, nil)
	require.Nil(t, source)
	require.True(t, errors.Is(err, domain.ErrBadParamInput))
	require.Empty(t, e.Routes())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/attestations", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
