// Package strategy holds built-in strategies for the backtester CLI. Any
// type satisfying domain.Strategy can be supplied by callers instead.
package strategy

import "github.com/vitos/trade_backtest/internal/domain"

// SMACross goes long when the fast simple moving average crosses above the
// slow one and sells the position when it crosses back below.
type SMACross struct {
	symbol   string
	fast     int
	slow     int
	quantity float64

	closes   []float64
	wasAbove bool
	primed   bool
	invested bool
}

func NewSMACross(symbol string, fast, slow int, quantity float64) *SMACross {
	if fast > slow {
		fast, slow = slow, fast
	}
	return &SMACross{
		symbol:   symbol,
		fast:     fast,
		slow:     slow,
		quantity: quantity,
	}
}

func (s *SMACross) Name() string   { return "sma-cross" }
func (s *SMACross) Symbol() string { return s.symbol }

func (s *SMACross) OnCandle(candle domain.Candle) *domain.Signal {
	s.closes = append(s.closes, candle.Close)
	if len(s.closes) < s.slow {
		return nil
	}

	above := s.sma(s.fast) > s.sma(s.slow)
	defer func() {
		s.wasAbove = above
		s.primed = true
	}()

	if !s.primed {
		return nil
	}

	if above && !s.wasAbove && !s.invested {
		s.invested = true
		return &domain.Signal{
			Side:     domain.SideBuy,
			Type:     domain.OrderTypeMarket,
			Quantity: s.quantity,
		}
	}
	if !above && s.wasAbove && s.invested {
		s.invested = false
		return &domain.Signal{
			Side:     domain.SideSell,
			Type:     domain.OrderTypeMarket,
			Quantity: s.quantity,
		}
	}
	return nil
}

func (s *SMACross) sma(period int) float64 {
	sum := 0.0
	for _, c := range s.closes[len(s.closes)-period:] {
		sum += c
	}
	return sum / float64(period)
}
