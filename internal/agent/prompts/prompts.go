// Package prompts renders the oracle prompts through eino prompt templates
// and holds the fallback question bank.
package prompts

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/observers"
)

//go:embed template/*.tmpl
var templates embed.FS

func mustTemplate(name string) string {
	b, err := templates.ReadFile("template/" + name + ".tmpl")
	if err != nil {
		panic(fmt.Sprintf("prompts: missing template %s: %v", name, err))
	}
	return string(b)
}

var (
	systemTpl     = mustTemplate("system")
	extractionTpl = mustTemplate("extraction")
	interestTpl   = mustTemplate("interest")
	questionTpl   = mustTemplate("question")
	inferenceTpl  = mustTemplate("inference")
	schedulingTpl = mustTemplate("scheduling")
	followupTpl   = mustTemplate("followup")
	completionTpl = mustTemplate("completion")
)

// render formats tpl through an eino chat template so prompt callbacks fire.
func render(ctx context.Context, name, tpl string, vars map[string]any) (string, error) {
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      name,
		Type:      "GoTemplate",
		Component: components.ComponentOfPrompt,
	}, observers.NewPromptCallbacks())

	msgs, err := prompt.FromMessages(schema.GoTemplate, schema.UserMessage(tpl)).Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("%s prompt render: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("%s prompt render: empty result", name)
	}
	return strings.TrimSpace(msgs[0].Content), nil
}

func leadTypeText(t model.LeadType) string {
	if !t.Valid() {
		return "Not determined yet"
	}
	return string(t)
}

func fieldText(f model.Field) string {
	if !f.Valid() {
		return "None"
	}
	return f.Label()
}

func labels(fs []model.Field) string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Label())
	}
	return strings.Join(out, ", ")
}

func bullets(fs []model.Field) string {
	var b strings.Builder
	for i, f := range fs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(f.Label())
	}
	return b.String()
}

// RenderSystem renders the persona system prompt sent with every call.
func RenderSystem(ctx context.Context, persona model.PersonaConfig) (string, error) {
	return render(ctx, "system", systemTpl, map[string]any{
		"AgentName":   persona.AgentName,
		"CompanyName": persona.CompanyName,
	})
}

type ExtractionVars struct {
	Utterance string
	Known     string
	LeadType  model.LeadType
	LastAsked model.Field
}

// extractableFields are the keys the extraction prompt may return.
var extractableFields = []model.Field{
	model.FieldName, model.FieldEmail, model.FieldPhone, model.FieldLocation,
	model.FieldBudgetRange, model.FieldPropertyType, model.FieldPropertySize,
	model.FieldTimeline, model.FieldCompany, model.FieldPosition, model.FieldIndustry,
	model.FieldCompanySize, model.FieldDecisionMaker, model.FieldUseCase,
	model.FieldCompetitors, model.FieldContactMethod, model.FieldAvailability,
}

// ExtractableFields lists the fields extraction may fill from oracle output.
func ExtractableFields() []model.Field {
	return append([]model.Field(nil), extractableFields...)
}

func RenderExtraction(ctx context.Context, v ExtractionVars) (string, error) {
	return render(ctx, "extraction", extractionTpl, map[string]any{
		"Utterance": v.Utterance,
		"Known":     v.Known,
		"LeadType":  leadTypeText(v.LeadType),
		"LastAsked": fieldText(v.LastAsked),
		"Fields":    labels(extractableFields),
	})
}

type InterestVars struct {
	Transcript []model.Turn
	Known      string
}

func RenderInterest(ctx context.Context, v InterestVars) (string, error) {
	return render(ctx, "interest", interestTpl, map[string]any{
		"Transcript": model.RenderTurns(v.Transcript),
		"Known":      v.Known,
	})
}

type QuestionVars struct {
	Transcript []model.Turn
	Known      string
	Remaining  []model.Field
	Focus      model.Field
	LastAsked  model.Field
}

func RenderQuestion(ctx context.Context, v QuestionVars) (string, error) {
	lastAsked := ""
	if v.LastAsked.Valid() {
		lastAsked = v.LastAsked.Label()
	}
	return render(ctx, "question", questionTpl, map[string]any{
		"Transcript": model.RenderTurns(v.Transcript),
		"Known":      v.Known,
		"Remaining":  bullets(v.Remaining),
		"Focus":      fieldText(v.Focus),
		"LastAsked":  lastAsked,
	})
}

type InferenceVars struct {
	Transcript []model.Turn
	Known      string
	LeadType   model.LeadType
	Targets    []model.Field
}

func RenderInference(ctx context.Context, v InferenceVars) (string, error) {
	return render(ctx, "inference", inferenceTpl, map[string]any{
		"Transcript": model.RenderTurns(v.Transcript),
		"Known":      v.Known,
		"LeadType":   leadTypeText(v.LeadType),
		"Targets":    bullets(v.Targets),
	})
}

type SchedulingVars struct {
	Transcript []model.Turn
	Known      string
}

func RenderScheduling(ctx context.Context, v SchedulingVars) (string, error) {
	return render(ctx, "scheduling", schedulingTpl, map[string]any{
		"Transcript": model.RenderTurns(v.Transcript),
		"Known":      v.Known,
	})
}

type FollowUpVars struct {
	Transcript    []model.Turn
	Known         string
	LeadType      model.LeadType
	InterestLevel string
	AgentName     string
	Today         time.Time
}

func RenderFollowUp(ctx context.Context, v FollowUpVars) (string, error) {
	return render(ctx, "followup", followupTpl, map[string]any{
		"Transcript":    model.RenderTurns(v.Transcript),
		"Known":         v.Known,
		"LeadType":      leadTypeText(v.LeadType),
		"InterestLevel": strings.ToLower(v.InterestLevel),
		"AgentName":     v.AgentName,
		"Today":         v.Today.Format("2006-01-02"),
	})
}

type CompletionVars struct {
	Known        string
	NextFollowup string
	Persona      model.PersonaConfig
}

func RenderCompletion(ctx context.Context, v CompletionVars) (string, error) {
	next := v.NextFollowup
	if next == "" {
		next = "not scheduled"
	}
	return render(ctx, "completion", completionTpl, map[string]any{
		"Known":        v.Known,
		"NextFollowup": next,
		"AgentName":    v.Persona.AgentName,
		"CompanyName":  v.Persona.CompanyName,
	})
}
