package usecases

import (
	"math"
	"time"

	"github.com/palacios-io/attribution-api/internal/domain/entities"
)

const (
	// Meia-vida do time decay: o crédito de um touchpoint cai pela metade
	// a cada 7 dias de distância da compra
	TimeDecayHalfLifeDays = 7.0

	// Pesos do position based: 40% primeiro, 40% último, 20% dividido no meio
	PositionFirstWeight  = 0.4
	PositionLastWeight   = 0.4
	PositionMiddleWeight = 0.2
)

// ModelResults carrega a saída dos cinco modelos de atribuição para uma compra
type ModelResults struct {
	FirstTouch       *entities.AttributionResult
	LastTouch        *entities.AttributionResult
	Linear           []entities.AttributionResult
	TimeDecay        []entities.AttributionResult
	PositionBased    []entities.AttributionResult
	TouchpointCount  int
	DaysToConversion float64
}

// ComputeModels calcula os cinco modelos sobre o recorte ordenado do ledger.
// Função pura de (touchpoints, amount, purchasedAt); sequência vazia produz
// resultados vazios, que é um desfecho válido (conversão direta/orgânica).
func ComputeModels(touchpoints []entities.Touchpoint, amount float64, purchasedAt time.Time) ModelResults {
	n := len(touchpoints)
	results := ModelResults{
		TouchpointCount: n,
		Linear:          []entities.AttributionResult{},
		TimeDecay:       []entities.AttributionResult{},
		PositionBased:   []entities.AttributionResult{},
	}
	if n == 0 {
		return results
	}

	first := singleResult(touchpoints[0], amount)
	last := singleResult(touchpoints[n-1], amount)
	results.FirstTouch = &first
	results.LastTouch = &last
	results.Linear = buildResults(touchpoints, linearWeights(n), amount)
	results.TimeDecay = buildResults(touchpoints, timeDecayWeights(touchpoints, purchasedAt), amount)
	results.PositionBased = buildResults(touchpoints, positionBasedWeights(n), amount)
	results.DaysToConversion = daysBetween(touchpoints[0].CreatedAt, purchasedAt)

	return results
}

func singleResult(touchpoint entities.Touchpoint, amount float64) entities.AttributionResult {
	return entities.AttributionResult{
		TouchpointID:     touchpoint.ID,
		Channel:          touchpoint.Channel,
		Campaign:         touchpoint.Campaign,
		Weight:           1.0,
		AttributedAmount: roundCents(amount),
	}
}

func linearWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return weights
}

// timeDecayWeights pondera cada touchpoint por 2^(-Δdias/meia-vida) e
// normaliza para os pesos somarem 1
func timeDecayWeights(touchpoints []entities.Touchpoint, purchasedAt time.Time) []float64 {
	weights := make([]float64, len(touchpoints))
	var total float64
	for i, tp := range touchpoints {
		deltaDays := daysBetween(tp.CreatedAt, purchasedAt)
		weights[i] = math.Exp2(-deltaDays / TimeDecayHalfLifeDays)
		total += weights[i]
	}
	for i := range weights {
		weights[i] /= total
	}
	return weights
}

// positionBasedWeights aplica 40/20/40. Com N=1 o touchpoint leva tudo;
// com N=2 não existe segmento do meio e o split vira 50/50 para preservar
// a soma 1 dos pesos.
func positionBasedWeights(n int) []float64 {
	switch n {
	case 1:
		return []float64{1.0}
	case 2:
		return []float64{0.5, 0.5}
	}
	weights := make([]float64, n)
	weights[0] = PositionFirstWeight
	weights[n-1] = PositionLastWeight
	middle := PositionMiddleWeight / float64(n-2)
	for i := 1; i < n-1; i++ {
		weights[i] = middle
	}
	return weights
}

// buildResults converte pesos em valores atribuídos arredondados a centavos.
// A sobra do arredondamento vai para o último resultado, de modo que a soma
// feche exatamente no valor da compra.
func buildResults(touchpoints []entities.Touchpoint, weights []float64, amount float64) []entities.AttributionResult {
	n := len(touchpoints)
	results := make([]entities.AttributionResult, n)
	var allocated float64
	for i, tp := range touchpoints {
		results[i] = entities.AttributionResult{
			TouchpointID: tp.ID,
			Channel:      tp.Channel,
			Campaign:     tp.Campaign,
			Weight:       weights[i],
		}
		if i < n-1 {
			results[i].AttributedAmount = roundCents(weights[i] * amount)
			allocated += results[i].AttributedAmount
		}
	}
	results[n-1].AttributedAmount = roundCents(amount - allocated)
	return results
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24.0
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
