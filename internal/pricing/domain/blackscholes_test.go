package domain

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestBlackScholesPriceReferenceCase(t *testing.T) {
	bs := NewBlackScholesModel()

	// 经典平价场景 S=K=100, r=5%, sigma=20%, T=1
	call, put, err := bs.Price(100, 100, 0.05, 0.2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(call, 10.450583572185565, 1e-9) {
		t.Errorf("call price = %v, want 10.450583572185565", call)
	}
	if !almostEqual(put, 5.573526022256971, 1e-9) {
		t.Errorf("put price = %v, want 5.573526022256971", put)
	}
}

func TestBlackScholesPutCallParity(t *testing.T) {
	bs := NewBlackScholesModel()

	cases := []struct {
		s, k, r, sigma, tm float64
	}{
		{100, 105, 0.05, 0.2, 1},
		{100, 100, 0.05, 0.2, 1},
		{50, 120, 0.01, 0.6, 2.5},
		{200, 150, 0.1, 0.15, 0.25},
	}
	for _, c := range cases {
		call, put, err := bs.Price(c.s, c.k, c.r, c.sigma, c.tm)
		if err != nil {
			t.Fatalf("Price(%v) error: %v", c, err)
		}
		// call - put = S - K*exp(-rT)
		want := c.s - c.k*math.Exp(-c.r*c.tm)
		if !almostEqual(call-put, want, 1e-9) {
			t.Errorf("parity violated for %v: call-put = %v, want %v", c, call-put, want)
		}
		if call < 0 || put < 0 {
			t.Errorf("negative price for %v: call=%v put=%v", c, call, put)
		}
	}
}

func TestBlackScholesSingularParameters(t *testing.T) {
	bs := NewBlackScholesModel()

	if _, _, err := bs.Price(100, 105, 0.05, 0, 1); !errors.Is(err, ErrSingularParameters) {
		t.Errorf("sigma=0: err = %v, want ErrSingularParameters", err)
	}
	if _, _, err := bs.Price(100, 105, 0.05, 0.2, 0); !errors.Is(err, ErrSingularParameters) {
		t.Errorf("T=0: err = %v, want ErrSingularParameters", err)
	}
	if _, _, err := bs.Price(-100, 105, 0.05, 0.2, 1); !errors.Is(err, ErrInvalidInitialPrice) {
		t.Errorf("S<0: err = %v, want ErrInvalidInitialPrice", err)
	}
	if _, _, err := bs.Price(100, 0, 0.05, 0.2, 1); !errors.Is(err, ErrInvalidStrike) {
		t.Errorf("K=0: err = %v, want ErrInvalidStrike", err)
	}
}

func TestIntrinsicValueLimit(t *testing.T) {
	call, put := IntrinsicValue(110, 105)
	if call != 5 || put != 0 {
		t.Errorf("IntrinsicValue(110,105) = (%v, %v), want (5, 0)", call, put)
	}
	call, put = IntrinsicValue(95, 105)
	if call != 0 || put != 10 {
		t.Errorf("IntrinsicValue(95,105) = (%v, %v), want (0, 10)", call, put)
	}
}

func TestZeroVolatilityPriceLimit(t *testing.T) {
	// sigma=0 时标的确定性增长，价格退化为折现行权价与现价的差
	call, put := ZeroVolatilityPrice(100, 105, 0.05, 1)
	kDisc := 105 * math.Exp(-0.05)
	if !almostEqual(call, math.Max(100-kDisc, 0), 1e-12) {
		t.Errorf("zero vol call = %v", call)
	}
	if !almostEqual(put, math.Max(kDisc-100, 0), 1e-12) {
		t.Errorf("zero vol put = %v", put)
	}

	// sigma -> 0 时 Black-Scholes 价格应收敛到该极限
	bs := NewBlackScholesModel()
	bsCall, bsPut, err := bs.Price(100, 105, 0.05, 1e-8, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(bsCall, call, 1e-6) || !almostEqual(bsPut, put, 1e-6) {
		t.Errorf("sigma->0 limit mismatch: bs=(%v, %v), limit=(%v, %v)", bsCall, bsPut, call, put)
	}
}

func TestBlackScholesQuoteGreeks(t *testing.T) {
	bs := NewBlackScholesModel()
	quote, err := bs.Quote(100, 105, 0.05, 0.2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.CallGreeks.Delta <= 0 || quote.CallGreeks.Delta >= 1 {
		t.Errorf("call delta = %v, want in (0,1)", quote.CallGreeks.Delta)
	}
	if quote.PutGreeks.Delta >= 0 || quote.PutGreeks.Delta <= -1 {
		t.Errorf("put delta = %v, want in (-1,0)", quote.PutGreeks.Delta)
	}
	// delta_call - delta_put = 1
	if !almostEqual(quote.CallGreeks.Delta-quote.PutGreeks.Delta, 1, 1e-12) {
		t.Errorf("delta parity violated: %v - %v", quote.CallGreeks.Delta, quote.PutGreeks.Delta)
	}
	if quote.CallGreeks.Gamma != quote.PutGreeks.Gamma {
		t.Errorf("gamma mismatch: %v vs %v", quote.CallGreeks.Gamma, quote.PutGreeks.Gamma)
	}
	if quote.CallGreeks.Vega != quote.PutGreeks.Vega {
		t.Errorf("vega mismatch: %v vs %v", quote.CallGreeks.Vega, quote.PutGreeks.Vega)
	}
	if quote.CallGreeks.Gamma <= 0 || quote.CallGreeks.Vega <= 0 {
		t.Errorf("gamma/vega must be positive: gamma=%v vega=%v", quote.CallGreeks.Gamma, quote.CallGreeks.Vega)
	}

	// 有限差分验证 delta
	const h = 1e-5
	upCall, _, _ := bs.Price(100+h, 105, 0.05, 0.2, 1)
	downCall, _, _ := bs.Price(100-h, 105, 0.05, 0.2, 1)
	fdDelta := (upCall - downCall) / (2 * h)
	if !almostEqual(quote.CallGreeks.Delta, fdDelta, 1e-6) {
		t.Errorf("call delta = %v, finite difference = %v", quote.CallGreeks.Delta, fdDelta)
	}
}
