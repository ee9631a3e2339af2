package domain

// ChainFamily groups chains by execution model.
type ChainFamily string

const (
	ChainFamilyEvm  ChainFamily = "evm"
	ChainFamilyMove ChainFamily = "move"
)

func (f ChainFamily) IsValid() bool {
	return f == ChainFamilyEvm || f == ChainFamilyMove
}

// Destination is the family a message from this family is executed on.
func (f ChainFamily) Destination() ChainFamily {
	switch f {
	case ChainFamilyEvm:
		return ChainFamilyMove
	case ChainFamilyMove:
		return ChainFamilyEvm
	}
	return ""
}

// SourceChain is one trusted message origin.
type SourceChain struct {
	ChainId       ChainId     `mapstructure:"chainId" json:"chainId" validate:"required"`
	Family        ChainFamily `mapstructure:"family" json:"family" validate:"required,oneof=evm move"`
	Emitter       string      `mapstructure:"emitter" json:"emitter" validate:"required,hash32"`
	StartSequence uint64      `mapstructure:"startSequence" json:"startSequence"`
}

func (s *SourceChain) EmitterAddress() (Hash32, error) {
	return HexToHash32(s.Emitter)
}

type BridgeConfig struct {
	// Domain prefixes the synthesized collection uri of minted tokens
	Domain string        `mapstructure:"domain" json:"domain" validate:"required,url"`
	Chains []SourceChain `mapstructure:"chains" json:"chains" validate:"required,min=1,dive"`
}

func (c *BridgeConfig) Source(id ChainId) (*SourceChain, bool) {
	for i := range c.Chains {
		if c.Chains[i].ChainId == id {
			return &c.Chains[i], true
		}
	}
	return nil, false
}
