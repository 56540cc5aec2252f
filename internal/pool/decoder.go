package pool

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"profitScope/internal/model"
)

var weiPerNative = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// SwapTopic returns the canonical topic0 of the schema's Swap event,
// derived from the embedded ABI. Computed once per scan and compared
// against log topics by equality only.
func SwapTopic(schema Schema) (common.Hash, error) {
	event, err := swapEvent(schema)
	if err != nil {
		return common.Hash{}, err
	}
	return event.ID, nil
}

// SwapDecoder decodes raw Swap logs of one schema into swap records.
// Decoding is pure; sender attribution and ledger updates belong to the
// caller.
type SwapDecoder struct {
	schema Schema
	event  abi.Event
}

// NewSwapDecoder builds a decoder for the given schema.
func NewSwapDecoder(schema Schema) (*SwapDecoder, error) {
	event, err := swapEvent(schema)
	if err != nil {
		return nil, err
	}
	return &SwapDecoder{schema: schema, event: event}, nil
}

// Topic returns the topic0 the decoder expects.
func (d *SwapDecoder) Topic() common.Hash {
	return d.event.ID
}

// Decode converts a raw log into a swap record. The second return value is
// false when the log carries no native-asset direction (zero amounts), in
// which case no event is recorded.
func (d *SwapDecoder) Decode(log types.Log) (model.Swap, bool, error) {
	values, err := d.event.Inputs.NonIndexed().Unpack(log.Data)
	if err != nil {
		return model.Swap{}, false, fmt.Errorf("unpack %s swap: %w", d.schema, err)
	}

	switch d.schema {
	case SchemaV3:
		return d.decodeV3(log, values)
	case SchemaV2:
		return d.decodeV2(log, values)
	default:
		return model.Swap{}, false, fmt.Errorf("unsupported schema: %d", d.schema)
	}
}

func (d *SwapDecoder) decodeV3(log types.Log, values []interface{}) (model.Swap, bool, error) {
	if len(values) != 7 {
		return model.Swap{}, false, fmt.Errorf("unexpected v3 swap values: %d", len(values))
	}

	amount1, err := asBigInt(values[1])
	if err != nil {
		return model.Swap{}, false, err
	}
	if amount1.Sign() == 0 {
		return model.Swap{}, false, nil
	}

	side := model.SideBuy
	if amount1.Sign() < 0 {
		side = model.SideSell
	}
	amount, err := nativeAmount(amount1)
	if err != nil {
		return model.Swap{}, false, err
	}
	return buildSwap(log, side, amount), true, nil
}

func (d *SwapDecoder) decodeV2(log types.Log, values []interface{}) (model.Swap, bool, error) {
	if len(values) != 4 {
		return model.Swap{}, false, fmt.Errorf("unexpected v2 swap values: %d", len(values))
	}

	amount1In, err := asBigInt(values[1])
	if err != nil {
		return model.Swap{}, false, err
	}
	amount0Out, err := asBigInt(values[2])
	if err != nil {
		return model.Swap{}, false, err
	}
	amount1Out, err := asBigInt(values[3])
	if err != nil {
		return model.Swap{}, false, err
	}

	// Amounts are uint256; non-zero presence encodes direction.
	var side model.Side
	var magnitude *big.Int
	switch {
	case amount0Out.Sign() != 0:
		side = model.SideBuy
		magnitude = amount1In
	case amount1Out.Sign() != 0:
		side = model.SideSell
		magnitude = amount1Out
	default:
		return model.Swap{}, false, nil
	}

	amount, err := nativeAmount(magnitude)
	if err != nil {
		return model.Swap{}, false, err
	}
	return buildSwap(log, side, amount), true, nil
}

func buildSwap(log types.Log, side model.Side, amount float64) model.Swap {
	return model.Swap{
		Side:        side,
		Amount:      amount,
		TxHash:      log.TxHash.Hex(),
		BlockNumber: log.BlockNumber,
	}
}

func swapEvent(schema Schema) (abi.Event, error) {
	switch schema {
	case SchemaV3:
		poolABI, err := V3PoolABI()
		if err != nil {
			return abi.Event{}, err
		}
		return poolABI.Events["Swap"], nil
	case SchemaV2:
		pairABI, err := V2PairABI()
		if err != nil {
			return abi.Event{}, err
		}
		return pairABI.Events["Swap"], nil
	default:
		return abi.Event{}, fmt.Errorf("unsupported schema: %d", schema)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	parsed, ok := value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("expected *big.Int, got %T", value)
	}
	return parsed, nil
}

// nativeAmount converts a wei magnitude into native-asset units rounded to
// three decimals.
func nativeAmount(value *big.Int) (float64, error) {
	rat := new(big.Rat).SetFrac(new(big.Int).Abs(value), weiPerNative)
	return strconv.ParseFloat(rat.FloatString(3), 64)
}
