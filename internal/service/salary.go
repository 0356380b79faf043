package service

import (
	"math"

	"career-pilot/internal/domain"
	"career-pilot/internal/market"
)

// EstimateSalary convierte el score total mas el rango de referencia de
// mercado y el ajuste de calibracion en una banda salarial (unidad: 만원).
//
// El punto medio se posiciona dentro del rango proporcional a total/100
// (0 = minimo de la banda, 100 = maximo) y la banda final es ±10% alrededor.
// El porcentaje de calibracion se aplica multiplicativamente a ambos bordes.
// Invariante de piso: el minimo final nunca baja del 80% del minimo de
// referencia sin ajustar, aplicado despues del porcentaje.
func EstimateSalary(scores domain.ScoreSet, jobCategory string, years, salaryAdjustmentPercent int) (int, int) {
	baseMin, baseMax := market.GetSalaryRange(jobCategory, years)

	scoreFactor := scores.Total / 100
	estimatedMid := float64(baseMin) + float64(baseMax-baseMin)*scoreFactor

	estimatedMin := int(estimatedMid * 0.9)
	estimatedMax := int(estimatedMid * 1.1)

	if salaryAdjustmentPercent != 0 {
		adjFactor := 1 + float64(salaryAdjustmentPercent)/100
		estimatedMin = int(float64(estimatedMin) * adjFactor)
		estimatedMax = int(float64(estimatedMax) * adjFactor)
	}

	floor := int(math.Floor(float64(baseMin) * 0.8))
	if estimatedMin < floor {
		estimatedMin = floor
	}
	if estimatedMax < estimatedMin {
		estimatedMax = estimatedMin
	}

	return estimatedMin, estimatedMax
}
