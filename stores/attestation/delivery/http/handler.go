package http

import (
	"encoding/hex"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/x-xyz/pixel-relayer/base/ctx"
	"github.com/x-xyz/pixel-relayer/base/delivery"
	"github.com/x-xyz/pixel-relayer/base/log"
	"github.com/x-xyz/pixel-relayer/base/vaa"
	"github.com/x-xyz/pixel-relayer/domain"
	authMiddleware "github.com/x-xyz/pixel-relayer/stores/auth/delivery/http/middleware"
)

const maxVaaSize = 64 << 10

// Source receives attested messages pushed by a spy or an operator over http.
type Source struct {
	mu      sync.RWMutex
	handler domain.MessageHandler
	done    chan struct{}
	once    sync.Once
}

var _ domain.AttestationSource = (*Source)(nil)

// New registers the intake routes behind bearer token auth. Requests are refused until Start is called.
func New(e *echo.Echo, auth domain.AuthUsecase) (*Source, error) {
	if auth == nil {
		return nil, xerrors.Errorf("attestation intake needs an auth usecase: %w", domain.ErrBadParamInput)
	}
	s := &Source{done: make(chan struct{})}
	g := e.Group("/attestations", authMiddleware.New(auth).Auth())
	g.POST("", s.submit)
	g.POST("/vaa", s.submitVaa)
	return s, nil
}

func (s *Source) Start(c ctx.Ctx, h domain.MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler != nil {
		return xerrors.Errorf("attestation source already started: %w", domain.ErrBadParamInput)
	}
	s.handler = h
	go func() {
		<-c.Done()
		s.mu.Lock()
		s.handler = nil
		s.mu.Unlock()
		s.once.Do(func() { close(s.done) })
	}()
	return nil
}

func (s *Source) Wait() {
	<-s.done
}

type attestationParams struct {
	// Vaa is a signed vaa, hex or base64. The other fields are ignored when it is set.
	Vaa            string  `json:"vaa"`
	ChainId        uint16  `json:"chainId" validate:"required_without=Vaa"`
	Sequence       *uint64 `json:"sequence" validate:"required_without=Vaa"`
	EmitterAddress string  `json:"emitterAddress" validate:"required_without=Vaa,omitempty,hash32"`
	Payload        string  `json:"payload" validate:"required_without=Vaa,omitempty,hexadecimal"`
	SourceTxHash   string  `json:"sourceTxHash"`
}

func (p *attestationParams) message() (*domain.AttestedMessage, error) {
	if p.Vaa != "" {
		v, err := vaa.ParseString(p.Vaa)
		if err != nil {
			return nil, err
		}
		if err := v.CheckSigned(); err != nil {
			return nil, err
		}
		return v.Message(p.SourceTxHash), nil
	}
	emitter, err := domain.HexToHash32(p.EmitterAddress)
	if err != nil {
		return nil, err
	}
	payload, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(p.Payload, "0x"), "0X"))
	if err != nil {
		return nil, xerrors.Errorf("payload: %w", domain.ErrBadParamInput)
	}
	return &domain.AttestedMessage{
		SourceChainId:  domain.ChainId(p.ChainId),
		Sequence:       *p.Sequence,
		EmitterAddress: emitter,
		Payload:        payload,
		SourceTxHash:   p.SourceTxHash,
	}, nil
}

type acceptedResp struct {
	Id             string `json:"id"`
	SourceChainId  uint16 `json:"sourceChainId"`
	Sequence       uint64 `json:"sequence"`
	EmitterAddress string `json:"emitterAddress"`
}

// submit
//
//	@Summary		Submit an attested message
//	@Description	Accepts a signed vaa, or the message fields of an attestation. Dispatch is asynchronous.
//	@Tags			attestations
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			body	body		attestationParams	true	"vaa or message fields"
//	@Success		202		{object}	acceptedResp
//	@Failure		400
//	@Failure		401
//	@Failure		422
//	@Failure		503
//	@Router			/attestations [post]
func (s *Source) submit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &attestationParams{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		ctx.WithField("err", err).Warn("validate failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	msg, err := p.message()
	if err != nil {
		ctx.WithField("err", err).Warn("bad attestation")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return s.deliver(c, ctx, msg)
}

// submitVaa takes the raw vaa bytes as body, or their hex/base64 text form
//
//	@Summary		Submit a vaa
//	@Description	Body is the raw vaa with content type application/octet-stream, otherwise its hex or base64 text.
//	@Tags			attestations
//	@Accept			octet-stream,plain
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			txHash	query		string	false	"source transaction hash"
//	@Success		202		{object}	acceptedResp
//	@Failure		400
//	@Failure		401
//	@Failure		422
//	@Failure		503
//	@Router			/attestations/vaa [post]
func (s *Source) submitVaa(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	body, err := ioutil.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxVaaSize))
	if err != nil {
		ctx.WithField("err", err).Warn("failed to read body")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	var v *vaa.VAA
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEOctetStream) {
		v, err = vaa.Parse(body)
	} else {
		v, err = vaa.ParseString(string(body))
	}
	if err == nil {
		err = v.CheckSigned()
	}
	if err != nil {
		ctx.WithField("err", err).Warn("bad vaa")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	return s.deliver(c, ctx, v.Message(c.QueryParam("txHash")))
}

func (s *Source) deliver(c echo.Context, cont ctx.Ctx, msg *domain.AttestedMessage) error {
	s.mu.RLock()
	h := s.handler
	s.mu.RUnlock()
	if h == nil {
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, domain.ErrQueueClosed)
	}

	cont = ctx.WithFields(cont, log.Fields{
		"chainId":  msg.SourceChainId,
		"sequence": msg.Sequence,
	})
	if err := h.OnMessage(cont, msg); err != nil {
		cont.WithField("err", err).Warn("handler.OnMessage failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusAccepted, acceptedResp{
		Id:             msg.Id().String(),
		SourceChainId:  uint16(msg.SourceChainId),
		Sequence:       msg.Sequence,
		EmitterAddress: msg.EmitterAddress.Hex(),
	})
}
