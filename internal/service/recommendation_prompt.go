package service

import (
	"fmt"
	"strconv"
	"strings"

	"diabetes-risk/internal/domain"
)

const defaultAdvisorLanguage = "Bahasa Indonesia"

// RecommendationPromptBuilder arma el prompt del asesor a partir del resumen clinico.
type RecommendationPromptBuilder struct {
	Language string
}

// SummaryFor extrae del perfil los campos que se comparten con el asesor.
func SummaryFor(p domain.RawHealthProfile, highRisk bool) domain.AdvisorSummary {
	s := domain.AdvisorSummary{HighRisk: highRisk}
	if p.BMI != nil {
		s.BMI = *p.BMI
	}
	s.HighBP = flagSet(p.HighBP)
	s.HighChol = flagSet(p.HighChol)
	s.Smoker = flagSet(p.Smoker)
	s.PhysActivity = flagSet(p.PhysActivity)
	if age, ok := ResolveAgeCategory(p); ok {
		s.AgeCategory = age
	}
	return s
}

func flagSet(f *domain.Flag) bool {
	return f != nil && *f == domain.Yes
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Build devuelve el prompt completo. Es determinista: el mismo resumen produce
// el mismo texto, lo que permite cachear por prompt.
func (b RecommendationPromptBuilder) Build(s domain.AdvisorSummary) string {
	language := strings.TrimSpace(b.Language)
	if language == "" {
		language = defaultAdvisorLanguage
	}
	risk := "LOW (healthy)"
	if s.HighRisk {
		risk = "HIGH (diabetes indication)"
	}

	var sb strings.Builder
	sb.WriteString("Short health analysis:\n")
	sb.WriteString(fmt.Sprintf("- BMI: %s\n", strconv.FormatFloat(s.BMI, 'f', -1, 64)))
	sb.WriteString(fmt.Sprintf("- High blood pressure: %s\n", yesNo(s.HighBP)))
	sb.WriteString(fmt.Sprintf("- High cholesterol: %s\n", yesNo(s.HighChol)))
	sb.WriteString(fmt.Sprintf("- Smoker: %s\n", yesNo(s.Smoker)))
	sb.WriteString(fmt.Sprintf("- Physically active: %s\n", yesNo(s.PhysActivity)))
	sb.WriteString(fmt.Sprintf("- Age: category %d\n\n", s.AgeCategory))
	sb.WriteString(fmt.Sprintf("Diabetes risk: %s.\n\n", risk))
	sb.WriteString("Give SHORT advice (at most 400 words):\n")
	sb.WriteString("1. Main risk factor (1 sentence)\n")
	sb.WriteString("2. 3 diet tips\n")
	sb.WriteString("3. 2 exercise tips\n")
	sb.WriteString(fmt.Sprintf("Answer in %s, using bullet points.\n", language))
	return sb.String()
}
