package domain

// ActionDescriptor is the decoded, fully validated destination action of a message.
// Only *ReviveAction and *MintAction implement it.
type ActionDescriptor interface {
	// Family is the chain family the action is executed on
	Family() ChainFamily
	actionDescriptor()
}

// ReviveAction returns custody of a token on an EVM chain.
type ReviveAction struct {
	DestContractId Hash32
	TokenContract  Hash32
	TokenId        uint8
	Receiver       Hash32
}

func (*ReviveAction) Family() ChainFamily { return ChainFamilyEvm }
func (*ReviveAction) actionDescriptor()   {}

// MintAction creates a representation of an EVM token on a Move chain.
type MintAction struct {
	DestContractId           Hash32
	SourceCollectionContract Hash32
	// TokenId keeps the decimal form of the uint256 token id
	TokenId               string
	CollectionName        string
	CollectionDescription string
	TokenUri              string
	Receiver              Hash32

	// SourceChainId is not on the wire, the dispatcher stamps it after decoding
	SourceChainId ChainId
}

func (*MintAction) Family() ChainFamily { return ChainFamilyMove }
func (*MintAction) actionDescriptor()   {}

// MintTokenCall holds the arguments of pixel::mint_token.
type MintTokenCall struct {
	Module                   string
	SourceCollectionContract Hash32
	CollectionName           string
	CollectionDescription    string
	CollectionUri            string
	TokenName                string
	TokenDescription         string
	TokenImage               string
	TokenId                  uint64
	Receiver                 Hash32
}
