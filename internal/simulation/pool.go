// Package simulation models a constant-product AMM pool and generates a
// synthetic wide-sandwich fixture for end-to-end testing of the detection
// and profit stages.
package simulation

// PoolState holds the reserves of a constant-product pool. Swaps mutate the
// reserves in place.
type PoolState struct {
	TokenReserve float64
	SOLReserve   float64
}

// NewPoolState creates a pool with the given reserves.
func NewPoolState(tokenReserve, solReserve float64) *PoolState {
	return &PoolState{TokenReserve: tokenReserve, SOLReserve: solReserve}
}

// Price returns the spot price in SOL per token.
func (p *PoolState) Price() float64 {
	return p.SOLReserve / p.TokenReserve
}

// CP returns the constant-product invariant k = token_reserve * sol_reserve.
func (p *PoolState) CP() float64 {
	return p.TokenReserve * p.SOLReserve
}

// SwapSOLForToken deposits solIn and returns the tokens withdrawn, keeping
// the constant product.
func (p *PoolState) SwapSOLForToken(solIn float64) float64 {
	newSOL := p.SOLReserve + solIn
	newToken := p.CP() / newSOL
	tokenOut := p.TokenReserve - newToken
	p.SOLReserve = newSOL
	p.TokenReserve = newToken
	return tokenOut
}

// SwapTokenForSOL deposits tokenIn and returns the SOL withdrawn, keeping
// the constant product.
func (p *PoolState) SwapTokenForSOL(tokenIn float64) float64 {
	newToken := p.TokenReserve + tokenIn
	newSOL := p.CP() / newToken
	solOut := p.SOLReserve - newSOL
	p.TokenReserve = newToken
	p.SOLReserve = newSOL
	return solOut
}
