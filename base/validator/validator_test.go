package validator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/pixel-relayer/domain"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func (s *ValidatorTestSuite) TestIsValidHash32() {
	tests := []struct {
		desc       string
		value      string
		expIsValid bool
	}{
		{
			desc:       "evm address",
			value:      "0x939ae6A4C8dfDBB1f7085189574F0A938013952A",
			expIsValid: true,
		},
		{
			desc:       "full word without prefix",
			value:      "7c0e3a9f1d2b4c5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6",
			expIsValid: true,
		},
		{
			desc:       "too long",
			value:      "0x7c0e3a9f1d2b4c5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6aa",
			expIsValid: false,
		},
		{
			desc:       "not hex",
			value:      "0xzz",
			expIsValid: false,
		},
	}
	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidHash32(t.value), t.desc)
	}
}

func (s *ValidatorTestSuite) TestBridgeConfig() {
	v := New()
	cfg := &domain.BridgeConfig{
		Domain: "https://bridge.example",
		Chains: []domain.SourceChain{
			{ChainId: domain.ChainIdAptos, Family: domain.ChainFamilyMove, Emitter: "0x01"},
		},
	}
	s.NoError(v.Struct(cfg))

	cfg.Chains[0].Family = "cosmos"
	s.Error(v.Struct(cfg))

	cfg.Chains = nil
	s.Error(v.Struct(cfg))
}

func (s *ValidatorTestSuite) TestCustomTag() {
	type params struct {
		Emitter string `validate:"required,hash32"`
	}
	v := NewCustomValidator(New())
	s.NoError(v.Validate(&params{Emitter: "0x01"}))
	s.Error(v.Validate(&params{Emitter: "0xq"}))
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
