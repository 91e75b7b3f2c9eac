package usecase

// Pending trade kinds. A pending trade stores one of these tags plus the full
// argument payload of the corresponding operation.
const (
	TradeBuyUSD             = "buy_usd"
	TradeSellUSD            = "sell_usd"
	TradeBuyOther           = "buy_other"
	TradeSellOther          = "sell_other"
	TradeAdjustBalance      = "adjust_balance"
	TradeUSDExchange        = "usd_exchange"
	TradeEURExchange        = "eur_exchange"
	TradeBankTransfer       = "bank_transfer"
	TradeBankToCash         = "bank_to_cash"
	TradeCashToBank         = "cash_to_bank"
	TradeAddDebt            = "add_debt"
	TradeAddReceivable      = "add_receivable"
	TradePayDebt            = "pay_debt"
	TradePayReceivable      = "pay_receivable"
	TradePosSettlement      = "pos_settlement"
	TradeDollarCardPayment  = "dollar_card_payment"
	TradeDollarCardComplete = "dollar_card_complete"
	TradeOperatingCost      = "operating_cost"
	TradeConvertDebt        = "convert_usd_debt_to_lyd"
)

var knownTradeKinds = map[string]bool{
	TradeBuyUSD: true, TradeSellUSD: true,
	TradeBuyOther: true, TradeSellOther: true,
	TradeAdjustBalance: true,
	TradeUSDExchange:   true, TradeEURExchange: true,
	TradeBankTransfer: true, TradeBankToCash: true, TradeCashToBank: true,
	TradeAddDebt: true, TradeAddReceivable: true,
	TradePayDebt: true, TradePayReceivable: true,
	TradePosSettlement:     true,
	TradeDollarCardPayment: true, TradeDollarCardComplete: true,
	TradeOperatingCost: true,
	TradeConvertDebt:   true,
}
