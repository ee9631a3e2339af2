package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// PixelABI covers the relayer facing entry points of the EVM pixel bridge contract
var PixelABI abi.ABI

func init() {
	_abi, err := abi.JSON(strings.NewReader(pixelABIJson))
	if err != nil {
		panic("Failed to parse ABI")
	}
	PixelABI = _abi
}

var pixelABIJson = `
[
  {
    "inputs": [
      {
        "internalType": "address",
        "name": "token",
        "type": "address"
      },
      {
        "internalType": "uint256",
        "name": "tokenId",
        "type": "uint256"
      },
      {
        "internalType": "address",
        "name": "receiver",
        "type": "address"
      }
    ],
    "name": "revive",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "address",
        "name": "token",
        "type": "address"
      },
      {
        "internalType": "uint256",
        "name": "tokenId",
        "type": "uint256"
      },
      {
        "internalType": "bytes32",
        "name": "receiver",
        "type": "bytes32"
      }
    ],
    "name": "bridge",
    "outputs": [
      {
        "internalType": "uint64",
        "name": "sequence",
        "type": "uint64"
      }
    ],
    "stateMutability": "payable",
    "type": "function"
  }
]
`
