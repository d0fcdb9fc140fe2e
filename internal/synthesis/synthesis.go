package synthesis

import (
	"fmt"
	"strings"

	"github.com/promptnx/pipeline/internal/domain"
)

// Offline substitute for the hosted generation service. Produces a structured
// prompt from static guidance tables so the primary flow keeps working when
// the service is unreachable.

const (
	Provider = "promptnx-local"
	Model    = "offline-synthesizer-v1"
)

type platformMeta struct {
	Label    string
	Category string
	Voice    string
}

var platforms = map[string]platformMeta{
	"chatgpt":    {"ChatGPT", "text", "Act like OpenAI ChatGPT/GPT-4 with precise system -> user framing."},
	"claude":     {"Claude", "text", "Follow Anthropic Claude constitutional style with balanced reasoning."},
	"gemini":     {"Gemini", "text", "Use Google Gemini multi-modal friendly tone with explicit references."},
	"lovable":    {"Lovable.dev", "development", "Behave like Lovable.dev copilot that scaffolds full-stack projects fast."},
	"midjourney": {"Midjourney", "image", "Speak in Midjourney v6 syntax with stylize and aspect ratios."},
	"dalle":      {"DALL-E", "image", "Deliver crisp DALL-E prompts emphasizing composition and details."},
	"leonardo":   {"Leonardo AI", "image", "Craft art-director instructions optimized for Leonardo AI."},
	"sora":       {"Sora", "video", "Write cinematic video prompts for Sora including motion + timing notes."},
	"runway":     {"Runway", "video", "Structure Runway shots with numbered beats and effects."},
	"copilot":    {"GitHub Copilot", "development", "Provide GitHub Copilot guidance with inline code instructions."},
	"perplexity": {"Perplexity", "research", "Use retrieval-friendly phrasing and cite references for Perplexity."},
	"universal":  {"Universal", "general", "Be platform agnostic but insist on explicit structure."},
}

var promptTypeGuidance = map[string]string{
	"app-development":  "Detail architecture choices, APIs, testing, and deployment notes for engineers.",
	"content-writing":  "Outline tone, audience, SEO keywords, hooks, and formatting expectations.",
	"marketing":        "Highlight campaign objectives, channels, CTAs, audiences, and performance metrics.",
	"design":           "Describe layout, typography, accessibility, and hand-off artifacts.",
	"coding":           "Request precise code snippets, edge cases, and validation steps.",
	"data-analysis":    "Include dataset assumptions, analytical methods, visuals, and decision criteria.",
	"automation":       "Spell out triggers, steps, guardrails, and monitoring.",
	"creative":         "Encourage storytelling beats, mood, pacing, and originality.",
	"video-generation": "Break down scenes, camera cues, motion, and render specs.",
	"image-generation": "Cover subject, composition, lighting, style, and negative prompts.",
}

var outputFormatGuidance = map[string]string{
	"casual":       "Use a friendly voice with short paragraphs and emojis sparingly.",
	"professional": "Write in a structured tone with numbered sections and clear headings.",
	"detailed":     "Provide exhaustive directions, sub-sections, and explicit acceptance criteria.",
	"role-based":   "Start with a \"You are ...\" persona framing followed by responsibilities.",
	"json":         "Return JSON with keys persona, context, instructions, quality_checks, follow_ups.",
	"markdown":     "Use Markdown headings, bullet lists, and code fences when useful.",
	"code-ready":   "Lead with code comments, commands, and inline explanations.",
}

var languageLabels = map[string]string{
	"english": "English",
	"urdu":    "Urdu",
	"hindi":   "Hindi",
	"arabic":  "Arabic",
	"spanish": "Spanish",
	"french":  "French",
	"german":  "German",
	"chinese": "Chinese",
}

var qualityChecklists = map[string][]string{
	"image": {
		"Composition covers subject, environment, lighting, and camera lens.",
		"Includes style keywords plus negative cues for banned artifacts.",
		"Specifies aspect ratio and render quality.",
	},
	"video": {
		"Scenes are broken into beats with timing and transitions.",
		"Motion cues, camera movement, and lighting described clearly.",
		"Output references duration, resolution, and format.",
	},
	"development": {
		"Includes stack, environments, and dependency notes.",
		"Lists validation, testing, and monitoring expectations.",
		"Calls out security, performance, and rollout safeguards.",
	},
	"default": {
		"Prompt states persona, context, and success metrics.",
		"Lists numbered instructions and expected deliverables.",
		"Adds edge cases plus follow-up questions.",
	},
}

var followUpIdeas = map[string][]string{
	"text": {
		"Ask the AI to provide 3 alternate tones or voices.",
		"Request a shorter TL;DR version for busy stakeholders.",
	},
	"image": {
		"Explore alternate color palettes or camera lenses.",
		"Vary mood (dawn, dusk, neon, film noir) to compare outputs.",
	},
	"video": {
		"Generate alternate shot pacing for social vs. cinematic cuts.",
		"Swap camera rigs (handheld vs. drone) to test dynamics.",
	},
	"development": {
		"Request code snippets for the most critical modules.",
		"Ask for test cases or observability hooks.",
	},
	"general": {
		"Brainstorm follow-up questions to refine the prompt.",
		"Request examples, datasets, or personas that strengthen outputs.",
	},
}

var categoryAliases = map[string]string{
	"text":        "text",
	"general":     "general",
	"research":    "text",
	"image":       "image",
	"video":       "video",
	"development": "development",
}

// PlatformLabel resolves a platform value to its display label. Used for the
// platform field on persisted versions.
func PlatformLabel(value string) string {
	if meta, ok := platforms[value]; ok {
		return meta.Label
	}

	if value != "" {
		return value
	}

	return "Universal"
}

func PlatformCategory(value string) string {
	if meta, ok := platforms[value]; ok {
		return meta.Category
	}

	return "general"
}

// EstimateScore scores a synthesized prompt on length, sectioning, and
// checklist presence. Non-empty prompts land in [72, 100].
func EstimateScore(prompt string) int {
	if prompt == "" {
		return 70
	}

	lengthScore := len(prompt) / 40
	if lengthScore > 40 {
		lengthScore = 40
	}

	sectionBonus := strings.Count(prompt, "## ") * 3

	checklistBonus := 0
	if strings.Contains(prompt, "- [ ]") {
		checklistBonus = 10
	}

	score := 62 + lengthScore + sectionBonus + checklistBonus
	if score < 72 {
		score = 72
	}
	if score > 100 {
		score = 100
	}

	return score
}

// Synthesize builds a degraded-mode generation result for the given request.
// reason records why the primary service was bypassed.
func Synthesize(req domain.GenerationRequest, reason string) domain.GenerationResult {
	platformLabel := PlatformLabel(req.AiPlatform)
	category := PlatformCategory(req.AiPlatform)

	languageLabel, ok := languageLabels[req.Language]
	if !ok {
		languageLabel = languageLabels["english"]
	}

	personaLine := platforms[req.AiPlatform].Voice
	if personaLine == "" {
		personaLine = fmt.Sprintf("Behave like a senior %s prompt engineer who ships production-ready instructions.", platformLabel)
	}

	typeGuidance, ok := promptTypeGuidance[req.PromptType]
	if !ok {
		typeGuidance = "Deliver a structured, high-impact prompt with measurable outcomes."
	}

	formatGuidance, ok := outputFormatGuidance[req.OutputFormat]
	if !ok {
		formatGuidance = "Return the answer using Markdown headings and bullet lists."
	}

	userInput := strings.TrimSpace(req.UserInput)
	visualReference := strings.TrimSpace(req.VisualReference)

	referenceLine := "Reference material: none provided. Ask clarifying questions if visuals are required."
	referenceStep := "Request clarifications when information or assets feel incomplete."
	if visualReference != "" {
		referenceType := req.ReferenceType
		if referenceType == "" {
			referenceType = "general"
		}
		referenceLine = fmt.Sprintf("Reference material (%s): %s", referenceType, visualReference)
		referenceStep = "Incorporate the supplied reference faithfully and note any missing info."
	}

	instructionFlow := numberedList([]string{
		fmt.Sprintf("Frame the assistant as %s tuned for the %q scenario.", platformLabel, req.PromptType),
		fmt.Sprintf("Summarize the mission in %s: %s", languageLabel, userInput),
		fmt.Sprintf("Lay out granular steps that follow %s", strings.ToLower(typeGuidance)),
		fmt.Sprintf("Embed formatting guidance: %s", formatGuidance),
		referenceStep,
		"Finish with success metrics, risks, and recommended follow-up prompts.",
	})

	checks, ok := qualityChecklists[category]
	if !ok {
		checks = qualityChecklists["default"]
	}

	followUpKey, ok := categoryAliases[category]
	if !ok {
		followUpKey = "general"
	}
	followUps := followUpIdeas[followUpKey]

	sections := []string{
		fmt.Sprintf("## Persona & Mission\n%s\n\nOperate in %s (mirroring user language if different) and keep tone %s by default.",
			personaLine, languageLabel, req.OutputFormat),
		fmt.Sprintf("## Context & Goal\nPrimary objective:\n\"\"\"%s\"\"\"\n\n%s", userInput, referenceLine),
	}

	if req.Mode == "enhance" && req.ExistingPrompt != "" {
		sections = append(sections, fmt.Sprintf(
			"## What to Improve\nExisting prompt to improve:\n\"\"\"\n%s\n\"\"\"\nTighten structure, remove redundancies, keep critical facts.",
			strings.TrimSpace(req.ExistingPrompt)))
	}

	sections = append(sections,
		fmt.Sprintf("## Instruction Flow\n%s", instructionFlow),
		fmt.Sprintf("## Output Format Rules\n%s\n- Always mention platform specifics for %s.\n- Provide sections: Persona, Context, Steps, Quality, Follow-ups.",
			formatGuidance, platformLabel),
		fmt.Sprintf("## Quality Checklist\n%s", checklist(checks)),
		fmt.Sprintf("## Follow-up Ideas\n%s", numberedList(followUps)),
	)

	prompt := strings.Join(sections, "\n\n")
	score := EstimateScore(prompt)

	return domain.GenerationResult{
		Prompt:   prompt,
		Score:    &score,
		Fallback: true,
		Provider: Provider,
		Model:    Model,
		Reason:   reason,
	}
}

func numberedList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", len(lines)+1, item))
	}

	return strings.Join(lines, "\n")
}

func checklist(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- [ ] %s", item))
	}

	return strings.Join(lines, "\n")
}
