package priority

import (
	"errors"
	"fmt"
	"strings"
)

// KeywordRule fires when the search text contains any of its keywords.
type KeywordRule struct {
	Keywords []string `yaml:"keywords"`
	Weight   int      `yaml:"weight"`
	Reason   string   `yaml:"reason"`
}

// ComboRule fires when every term is present. A term matches if any of its
// alternatives is a substring of the search text.
type ComboRule struct {
	AllOf  [][]string `yaml:"all_of"`
	Weight int        `yaml:"weight"`
	Reason string     `yaml:"reason"`
}

// TagWeight assigns a weight to an exact (case-insensitive) tag label.
type TagWeight struct {
	Tag    string `yaml:"tag"`
	Weight int    `yaml:"weight"`
}

// RuleSet holds every table the scorer evaluates. Build it once and share it;
// the scorer never mutates it.
type RuleSet struct {
	Keywords []KeywordRule
	Combos   []ComboRule
	Tags     map[string]int // lower-cased label -> weight
	General  []KeywordRule
}

const criticalTagWeight = 20

// DefaultRules returns the built-in help desk rule tables.
func DefaultRules() *RuleSet {
	return &RuleSet{
		Keywords: []KeywordRule{
			{
				Keywords: []string{
					"sin internet", "no hay internet", "no tengo internet",
					"sin wifi", "no hay wifi", "wifi caído", "wifi caido",
					"internet caído", "internet caido",
					"se cayó internet", "se cayo internet", "se cayó el internet", "se cayo el internet",
				},
				Weight: 60,
				Reason: "Reporte indica caída de internet",
			},
			{
				Keywords: []string{
					"no proyecta", "proyector no funciona", "proyector no enciende",
					"proyector sin señal", "proyector sin senal",
					"sin proyección", "sin proyeccion", "no da imagen",
				},
				Weight: 40,
				Reason: "Problema con proyección detectado",
			},
			{
				Keywords: []string{
					"huésped", "huesped",
					"cliente molesto", "cliente esperando",
					"pasajero molesto", "pasajero esperando",
				},
				Weight: 45,
				Reason: "Impacto directo en huésped",
			},
			{
				Keywords: []string{
					"no imprime", "impresora no funciona", "impresora atascada", "atasco de papel",
					"impresora sin tinta", "impresora sin tóner", "impresora sin toner",
				},
				Weight: 35,
				Reason: "Problema con impresora detectado",
			},
			{
				Keywords: []string{
					"notebook no enciende", "notebook no prende", "notebook no arranca", "notebook con fallas",
					"pc no enciende", "pc no prende", "pc no arranca",
					"laptop no enciende", "laptop no prende", "computador no enciende",
				},
				Weight: 30,
				Reason: "Reporte de notebook/pc con fallas",
			},
		},
		Combos: []ComboRule{
			{
				AllOf:  [][]string{{"recepción", "recepcion"}, {"no funciona"}},
				Weight: 50,
				Reason: "Recepción sin sistema funcional",
			},
			{
				AllOf:  [][]string{{"recepción", "recepcion"}, {"caído", "caido"}},
				Weight: 50,
				Reason: "Recepción reporta sistema caído",
			},
			{
				AllOf:  [][]string{{"cocina"}, {"sin luz", "no tiene luz"}},
				Weight: 55,
				Reason: "Cocina sin energía",
			},
			{
				AllOf:  [][]string{{"cocina"}, {"sin gas", "no tiene gas"}},
				Weight: 55,
				Reason: "Cocina sin gas",
			},
		},
		Tags: map[string]int{
			"sin wifi":  criticalTagWeight,
			"impresora": criticalTagWeight,
			"proyector": criticalTagWeight,
			"recepción": criticalTagWeight,
			"cocina":    criticalTagWeight,
			"huésped":   criticalTagWeight,
		},
		General: []KeywordRule{
			{
				Keywords: []string{"no funciona", "no responde", "caído", "caido", "bloqueado"},
				Weight:   25,
				Reason:   "Incidente crítico detectado",
			},
			{
				Keywords: []string{"no arranca", "sin acceso", "error 500", "error 404"},
				Weight:   15,
				Reason:   "Error técnico detectado",
			},
			{
				Keywords: []string{"urgente", "crítico", "critico"},
				Weight:   25,
				Reason:   "Usuario marcó el incidente como crítico",
			},
		},
	}
}

// Validate rejects tables the scorer cannot evaluate meaningfully. Negative
// weights are refused so that adding a signal never lowers a score.
func (rs *RuleSet) Validate() error {
	if rs == nil {
		return errors.New("rule set is nil")
	}
	if err := validateKeywordRules("keyword_rules", rs.Keywords); err != nil {
		return err
	}
	if err := validateKeywordRules("general_rules", rs.General); err != nil {
		return err
	}
	for i, rule := range rs.Combos {
		if len(rule.AllOf) == 0 {
			return fmt.Errorf("combo_rules[%d]: no terms", i)
		}
		for j, term := range rule.AllOf {
			if len(term) == 0 {
				return fmt.Errorf("combo_rules[%d]: term %d has no alternatives", i, j)
			}
			for _, alt := range term {
				if strings.TrimSpace(alt) == "" {
					return fmt.Errorf("combo_rules[%d]: term %d has an empty alternative", i, j)
				}
			}
		}
		if err := validateWeightAndReason("combo_rules", i, rule.Weight, rule.Reason); err != nil {
			return err
		}
	}
	for tag, weight := range rs.Tags {
		if strings.TrimSpace(tag) == "" {
			return errors.New("tag_weights: empty tag label")
		}
		if weight < 0 {
			return fmt.Errorf("tag_weights[%s]: negative weight %d", tag, weight)
		}
	}
	return nil
}

func validateKeywordRules(section string, rules []KeywordRule) error {
	for i, rule := range rules {
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("%s[%d]: no keywords", section, i)
		}
		for _, kw := range rule.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("%s[%d]: empty keyword", section, i)
			}
		}
		if err := validateWeightAndReason(section, i, rule.Weight, rule.Reason); err != nil {
			return err
		}
	}
	return nil
}

func validateWeightAndReason(section string, idx, weight int, reason string) error {
	if weight < 0 {
		return fmt.Errorf("%s[%d]: negative weight %d", section, idx, weight)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%s[%d]: empty reason", section, idx)
	}
	return nil
}
