package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/sarraf/treasury/internal/book"
	"github.com/sarraf/treasury/internal/domain"
)

// StagePendingTrade parks an operation payload for later confirmation.
// Nothing moves until the trade is confirmed.
func (s *Service) StagePendingTrade(kind string, payload json.RawMessage) (string, error) {
	if !knownTradeKinds[kind] {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownTradeKind, kind)
	}
	if !json.Valid(payload) {
		return "", fmt.Errorf("stage %s: payload is not valid JSON", kind)
	}

	id := s.idGen.Generate()
	err := s.mutate("stage_pending_trade", func(b *book.Book) error {
		b.PendingTrades = append(b.PendingTrades, &domain.PendingTrade{
			ID:        id,
			Kind:      kind,
			Payload:   append(json.RawMessage(nil), payload...),
			CreatedAt: s.clock.Now(),
		})
		return nil
	})
	return id, err
}

// ConfirmPendingTrade executes a staged trade and removes it, all in one
// commit. A failing trade leaves the pending row in place.
func (s *Service) ConfirmPendingTrade(id string) error {
	return s.mutate("confirm_pending_trade", func(b *book.Book) error {
		pt := b.PendingTrade(id)
		if pt == nil {
			return fmt.Errorf("%w: %s", domain.ErrPendingTradeNotFound, id)
		}
		if err := s.applyTrade(b, pt.Kind, pt.Payload); err != nil {
			return fmt.Errorf("confirm %s: %w", pt.Kind, err)
		}
		return b.RemovePendingTrade(id)
	})
}

// DiscardPendingTrade drops a staged trade without executing it.
func (s *Service) DiscardPendingTrade(id string) error {
	return s.mutate("discard_pending_trade", func(b *book.Book) error {
		return b.RemovePendingTrade(id)
	})
}

// applyTrade dispatches a staged payload to the operation it was staged for.
func (s *Service) applyTrade(b *book.Book, kind string, payload json.RawMessage) error {
	switch kind {
	case TradeBuyUSD:
		var input BuyInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		input.Currency = domain.CurrencyUSD
		return s.doBuy(b, domain.GroupBuyUSD, input)

	case TradeSellUSD:
		var input SellInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		input.Currency = domain.CurrencyUSD
		return s.doSell(b, domain.GroupSellUSD, input)

	case TradeBuyOther:
		var input BuyInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doBuy(b, domain.GroupBuyOther, input)

	case TradeSellOther:
		var input SellInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doSell(b, domain.GroupSellOther, input)

	case TradeAdjustBalance:
		var input AdjustBalanceInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doAdjustBalance(b, input)

	case TradeUSDExchange:
		var input ExchangeInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doExchange(b, domain.GroupUSDExchange, domain.CurrencyUSD, input)

	case TradeEURExchange:
		var input ExchangeInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doExchange(b, domain.GroupEURExchange, domain.CurrencyEUR, input)

	case TradeBankTransfer:
		var input BankTransferInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doBankTransfer(b, input)

	case TradeBankToCash:
		var input BankCashExchangeInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doBankCashExchange(b, input, true)

	case TradeCashToBank:
		var input BankCashExchangeInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doBankCashExchange(b, input, false)

	case TradeAddDebt:
		var input AddDebtInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		_, err := s.doAddDebt(b, input)
		return err

	case TradeAddReceivable:
		var input AddReceivableInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		_, err := s.doAddReceivable(b, input)
		return err

	case TradePayDebt:
		var input PayDebtInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doPayDebt(b, input)

	case TradePayReceivable:
		var input PayReceivableInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doPayReceivable(b, input)

	case TradePosSettlement:
		var input PosSettlementInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		_, err := s.doPosSettlement(b, input)
		return err

	case TradeDollarCardPayment:
		var input DollarCardPaymentInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doDollarCardPayment(b, input)

	case TradeDollarCardComplete:
		var input DollarCardCompleteInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doDollarCardComplete(b, input)

	case TradeOperatingCost:
		var input OperatingCostInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		_, err := s.doOperatingCost(b, input)
		return err

	case TradeConvertDebt:
		var input ConvertDebtInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		return s.doConvertDebt(b, input)

	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownTradeKind, kind)
	}
}
