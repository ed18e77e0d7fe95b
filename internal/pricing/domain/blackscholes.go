package domain

import (
	"fmt"
	"math"
)

// Greeks 期权敏感度指标
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// BlackScholesQuote 解析定价结果
type BlackScholesQuote struct {
	Call       float64
	Put        float64
	CallGreeks Greeks
	PutGreeks  Greeks
}

// BlackScholesModel 欧式期权闭式定价模型
type BlackScholesModel struct{}

// NewBlackScholesModel 创建 Black-Scholes 模型
func NewBlackScholesModel() *BlackScholesModel {
	return &BlackScholesModel{}
}

// Price 计算欧式看涨/看跌理论价格
// d1 = (ln(S/K) + (r + 0.5*sigma^2)*T) / (sigma*sqrt(T))，d2 = d1 - sigma*sqrt(T)
// sigma == 0 或 T == 0 时公式奇异（d1 分母为零），返回 ErrSingularParameters，
// 调用方应改用 IntrinsicValue（T=0）或 ZeroVolatilityPrice（sigma=0）
func (bs *BlackScholesModel) Price(s, k, r, sigma, t float64) (call, put float64, err error) {
	if s <= 0 {
		return 0, 0, fmt.Errorf("%w: S=%v", ErrInvalidInitialPrice, s)
	}
	if k <= 0 {
		return 0, 0, fmt.Errorf("%w: K=%v", ErrInvalidStrike, k)
	}
	if sigma == 0 || t == 0 {
		return 0, 0, fmt.Errorf("%w: sigma=%v T=%v", ErrSingularParameters, sigma, t)
	}

	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)

	call = s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
	put = k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1)
	return call, put, nil
}

// Quote 一次性计算价格与希腊字母
func (bs *BlackScholesModel) Quote(s, k, r, sigma, t float64) (*BlackScholesQuote, error) {
	call, put, err := bs.Price(s, k, r, sigma, t)
	if err != nil {
		return nil, err
	}

	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)
	pdfD1 := normPDF(d1)
	expRT := math.Exp(-r * t)

	gamma := pdfD1 / (s * sigma * math.Sqrt(t))
	vega := s * pdfD1 * math.Sqrt(t) / 100

	quote := &BlackScholesQuote{Call: call, Put: put}
	quote.CallGreeks = Greeks{
		Delta: normCDF(d1),
		Gamma: gamma,
		Theta: -(s*pdfD1*sigma)/(2*math.Sqrt(t)) - r*k*expRT*normCDF(d2),
		Vega:  vega,
		Rho:   k * t * expRT * normCDF(d2) / 100,
	}
	quote.PutGreeks = Greeks{
		Delta: normCDF(d1) - 1,
		Gamma: gamma,
		Theta: -(s*pdfD1*sigma)/(2*math.Sqrt(t)) + r*k*expRT*normCDF(-d2),
		Vega:  vega,
		Rho:   -k * t * expRT * normCDF(-d2) / 100,
	}
	return quote, nil
}

// IntrinsicValue T = 0 的极限：未折现内在价值
func IntrinsicValue(s, k float64) (call, put float64) {
	return math.Max(s-k, 0), math.Max(k-s, 0)
}

// ZeroVolatilityPrice sigma = 0 的极限：确定性漂移下的折现价值
func ZeroVolatilityPrice(s, k, r, t float64) (call, put float64) {
	kDisc := k * math.Exp(-r*t)
	return math.Max(s-kDisc, 0), math.Max(kDisc-s, 0)
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
