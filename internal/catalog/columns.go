package catalog

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"mcp-calorie-calc/internal/models"
)

type field int

const (
	fieldCalories field = iota
	fieldCholesterol
	fieldTotalFat
	fieldSodium
	fieldTotalCarbs
	fieldFiber
	fieldSugar
	fieldCalcium
	fieldProtein
	numFields
)

// Header spellings accepted for the name column and each nutrient, first
// spelling being the canonical one.
var (
	nameColumns = []string{"item", "name", "food", "food_item"}

	//nolint:gochecknoglobals // static header lookup
	nutrientColumns = [numFields][]string{
		fieldCalories:    {"calories", "calorie", "kcal"},
		fieldCholesterol: {"cholesterol"},
		fieldTotalFat:    {"total_fat", "fat"},
		fieldSodium:      {"sodium"},
		fieldTotalCarbs:  {"total_carb", "total_carbs", "carbs", "carbohydrates"},
		fieldFiber:       {"fiber", "fibre"},
		fieldSugar:       {"sugar", "sugars"},
		fieldCalcium:     {"calcium"},
		fieldProtein:     {"protein"},
	}
)

// columnMap holds the column index of the name and of each nutrient, -1 when absent.
type columnMap struct {
	name      int
	nutrients [numFields]int
}

func mapColumns(columns []string) columnMap {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		key := headerKey(c)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	lookup := func(aliases []string) int {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				return i
			}
		}
		return -1
	}

	m := columnMap{name: lookup(nameColumns)}
	for f := range numFields {
		m.nutrients[f] = lookup(nutrientColumns[f])
	}
	return m
}

func (m columnMap) missing() []string {
	var out []string
	if m.name < 0 {
		out = append(out, nameColumns[0])
	}
	for f := range numFields {
		if m.nutrients[f] < 0 {
			out = append(out, nutrientColumns[f][0])
		}
	}
	return out
}

func (m columnMap) vector(row []string) models.Nutrients {
	var v [numFields]float64
	for f := range numFields {
		if i := m.nutrients[f]; i >= 0 && i < len(row) {
			v[f] = parseAmount(row[i])
		}
	}
	return models.Nutrients{
		Calories:    v[fieldCalories],
		Cholesterol: v[fieldCholesterol],
		TotalFat:    v[fieldTotalFat],
		Sodium:      v[fieldSodium],
		TotalCarbs:  v[fieldTotalCarbs],
		Fiber:       v[fieldFiber],
		Sugar:       v[fieldSugar],
		Calcium:     v[fieldCalcium],
		Protein:     v[fieldProtein],
	}
}

func headerKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

// parseAmount returns 0 for anything that is not a finite non-negative number.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// NormalizeName lowercases and trims a food name for case-insensitive matching.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}
