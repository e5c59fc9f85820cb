package evm

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20ABIJSON = `[
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"burnFrom","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"increaseAllowance","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"addedValue","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

const erc721ABIJSON = `[
  {"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"safeTransferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"safeTransferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"}],"outputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"function","name":"safeMint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"}],"outputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]}
]`

const erc1155ABIJSON = `[
  {"type":"function","name":"safeTransferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"safeBatchTransferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"ids","type":"uint256[]"},{"name":"amounts","type":"uint256[]"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"mintBatch","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"ids","type":"uint256[]"},{"name":"amounts","type":"uint256[]"},{"name":"data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"burn","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"id","type":"uint256"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"burnBatch","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"ids","type":"uint256[]"},{"name":"amounts","type":"uint256[]"}],"outputs":[]}
]`

const erc165ABIJSON = `[
  {"type":"function","name":"supportsInterface","stateMutability":"view","inputs":[{"name":"interfaceId","type":"bytes4"}],"outputs":[{"name":"","type":"bool"}]}
]`

var (
	abiOnce    sync.Once
	abiErr     error
	erc20ABI   abi.ABI
	erc721ABI  abi.ABI
	erc1155ABI abi.ABI
	erc165ABI  abi.ABI
)

func parseABIs() {
	parse := func(src string) abi.ABI {
		if abiErr != nil {
			return abi.ABI{}
		}
		parsed, err := abi.JSON(strings.NewReader(src))
		if err != nil {
			abiErr = err
		}
		return parsed
	}
	erc20ABI = parse(erc20ABIJSON)
	erc721ABI = parse(erc721ABIJSON)
	erc1155ABI = parse(erc1155ABIJSON)
	erc165ABI = parse(erc165ABIJSON)
}

// ERC20ABI returns the parsed ERC20 method catalogue.
func ERC20ABI() (abi.ABI, error) {
	abiOnce.Do(parseABIs)
	return erc20ABI, abiErr
}

// ERC721ABI returns the parsed ERC721 method catalogue.
func ERC721ABI() (abi.ABI, error) {
	abiOnce.Do(parseABIs)
	return erc721ABI, abiErr
}

// ERC1155ABI returns the parsed ERC1155 method catalogue.
func ERC1155ABI() (abi.ABI, error) {
	abiOnce.Do(parseABIs)
	return erc1155ABI, abiErr
}

// ERC165ABI returns the supportsInterface probe ABI.
func ERC165ABI() (abi.ABI, error) {
	abiOnce.Do(parseABIs)
	return erc165ABI, abiErr
}

// methodBySelector finds the catalogue method whose 4-byte id prefixes
// data, and unpacks its arguments. A miss is not an error.
func methodBySelector(contractABI abi.ABI, data []byte) (abi.Method, []interface{}, bool) {
	if len(data) < 4 {
		return abi.Method{}, nil, false
	}
	for _, method := range contractABI.Methods {
		if len(method.ID) == 4 && string(method.ID) == string(data[:4]) {
			args, err := method.Inputs.Unpack(data[4:])
			if err != nil {
				return abi.Method{}, nil, false
			}
			return method, args, true
		}
	}
	return abi.Method{}, nil, false
}
