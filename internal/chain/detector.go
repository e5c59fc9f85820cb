package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"chainscope/internal/evm"
)

// EIP-165 interface identifiers.
var (
	erc721InterfaceID  = [4]byte{0x80, 0xac, 0x58, 0xcd}
	erc1155InterfaceID = [4]byte{0xd9, 0xb6, 0x7a, 0x26}
)

// StandardProbe classifies token contracts on chain. ERC-721 and
// ERC-1155 are detected through supportsInterface; contracts without
// EIP-165 support fall through to an ERC-20 probe, since ERC-20
// predates EIP-165 and most deployments never implement it.
type StandardProbe struct {
	reader evm.ChainReader
	logger *zap.Logger
}

func NewStandardProbe(reader evm.ChainReader, logger *zap.Logger) *StandardProbe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandardProbe{reader: reader, logger: logger}
}

// DetectStandard implements evm.StandardDetector.
func (p *StandardProbe) DetectStandard(ctx context.Context, token common.Address) (evm.Standard, error) {
	if ok, err := p.supportsInterface(ctx, token, erc721InterfaceID); err == nil && ok {
		return evm.StandardERC721, nil
	} else if err != nil && ctx.Err() != nil {
		return evm.StandardUnknown, err
	}
	if ok, err := p.supportsInterface(ctx, token, erc1155InterfaceID); err == nil && ok {
		return evm.StandardERC1155, nil
	} else if err != nil && ctx.Err() != nil {
		return evm.StandardUnknown, err
	}

	erc20, err := evm.ERC20ABI()
	if err != nil {
		return evm.StandardUnknown, err
	}
	if _, err := p.reader.ReadContract(ctx, token, erc20, "totalSupply"); err == nil {
		return evm.StandardERC20, nil
	} else if ctx.Err() != nil {
		return evm.StandardUnknown, err
	}

	p.logger.Debug("token matched no known standard", zap.String("token", token.Hex()))
	return evm.StandardUnknown, nil
}

func (p *StandardProbe) supportsInterface(ctx context.Context, token common.Address, id [4]byte) (bool, error) {
	erc165, err := evm.ERC165ABI()
	if err != nil {
		return false, err
	}
	values, err := p.reader.ReadContract(ctx, token, erc165, "supportsInterface", id)
	if err != nil {
		return false, err
	}
	if len(values) != 1 {
		return false, nil
	}
	supported, ok := values[0].(bool)
	return ok && supported, nil
}
