// Package market expone la tabla de referencia de mercado: rangos salariales
// por (direccion de carrera, banda de experiencia) y niveles de demanda por
// (direccion, skill). Los datos son estaticos y de solo lectura, seguros de
// compartir entre corridas concurrentes.
package market

import "strings"

// SalaryBand es un rango salarial anual en unidades de 10.000 KRW.
type SalaryBand struct {
	JobCategory string
	YearsRange  string
	Min         int
	Max         int
}

// SkillDemand es el nivel de demanda 1-10 de un skill dentro de una
// direccion de carrera.
type SkillDemand struct {
	JobCategory string
	SkillName   string
	DemandLevel int
}

// DefaultDemandLevel se devuelve para skills sin entrada en la tabla.
const DefaultDemandLevel = 5

// Banda de fallback cuando ni siquiera la categoria "other" tiene datos.
const (
	fallbackSalaryMin = 3000
	fallbackSalaryMax = 5000
)

// YearsRange convierte años de experiencia en la banda usada por la tabla.
func YearsRange(years int) string {
	switch {
	case years <= 2:
		return "0-2"
	case years <= 5:
		return "3-5"
	case years <= 9:
		return "6-9"
	case years <= 14:
		return "10-14"
	default:
		return "15+"
	}
}

// GetSalaryRange devuelve el rango salarial base para la direccion y los
// años dados. Cae a la categoria "other" si la direccion no tiene entrada,
// y a un rango fijo como ultimo recurso.
func GetSalaryRange(jobCategory string, years int) (int, int) {
	yr := YearsRange(years)
	for _, e := range salaryData {
		if e.JobCategory == jobCategory && e.YearsRange == yr {
			return e.Min, e.Max
		}
	}
	for _, e := range salaryData {
		if e.JobCategory == "other" && e.YearsRange == yr {
			return e.Min, e.Max
		}
	}
	return fallbackSalaryMin, fallbackSalaryMax
}

// GetSkillDemand devuelve el nivel de demanda 1-10 de un skill. El match es
// case-insensitive; si la direccion no tiene el skill se busca en cualquier
// direccion, y sin match alguno se devuelve DefaultDemandLevel.
func GetSkillDemand(jobCategory, skillName string) int {
	lower := strings.ToLower(skillName)
	for _, e := range skillDemand {
		if e.JobCategory == jobCategory && strings.ToLower(e.SkillName) == lower {
			return e.DemandLevel
		}
	}
	for _, e := range skillDemand {
		if strings.ToLower(e.SkillName) == lower {
			return e.DemandLevel
		}
	}
	return DefaultDemandLevel
}

// SalaryBands devuelve una copia de la tabla salarial para el seed de DB.
func SalaryBands() []SalaryBand {
	out := make([]SalaryBand, len(salaryData))
	copy(out, salaryData)
	return out
}

// SkillDemands devuelve una copia de la tabla de demanda para el seed de DB.
func SkillDemands() []SkillDemand {
	out := make([]SkillDemand, len(skillDemand))
	copy(out, skillDemand)
	return out
}
