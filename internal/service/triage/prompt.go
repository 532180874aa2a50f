package triage

import (
	"fmt"
	"strings"

	"github.com/carewise/triage-api/internal/model"
)

const notProvided = "Not provided"

// buildPrompt renders the triage instruction for the upstream model. The
// schema description and risk-score banding are advisory guidance for the
// generator; the server only enforces risk_level on the way back.
func buildPrompt(req *model.AnalyzeRequest) string {
	var b strings.Builder

	b.WriteString("You are a clinical triage support assistant. You are NOT a diagnostician ")
	b.WriteString("and must never assert a diagnosis; you prioritize care urgency only.\n\n")

	b.WriteString("Patient details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orNotProvided(req.PatientName))
	fmt.Fprintf(&b, "- Age: %s\n", orNotProvided(req.Age))
	fmt.Fprintf(&b, "- Symptoms: %s\n", strings.TrimSpace(req.Symptoms))
	fmt.Fprintf(&b, "- Vitals: %s\n\n", orNotProvided(req.Vitals))

	b.WriteString(`Respond with JSON only, no prose and no code fences, matching exactly:
{
  "risk_level": "Low" | "Moderate" | "High" | "Critical",
  "risk_score": integer 0-100,
  "key_concerns": string[],
  "triage_recommendation": string (immediate-action guidance),
  "clinical_summary": string,
  "tests_advised": string[],
  "first_aid_steps": string[],
  "when_to_refer": string
}
Score banding: 0-25 Low, 26-50 Moderate, 51-75 High, 76-100 Critical.
`)

	return b.String()
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return strings.TrimSpace(s)
}
