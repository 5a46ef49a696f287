package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"hueforge-backend/llm"
	"hueforge-backend/models"
)

// GenerationService builds prompts for the hosted completion API and turns
// its free-text replies into validated design-system assets. Each operation
// performs exactly one outbound call; failures surface immediately.
type GenerationService struct {
	client llm.Client
}

// GenerationServiceOption is a functional option for GenerationService
type GenerationServiceOption func(*GenerationService)

// WithCompletionClient sets the completion client
func WithCompletionClient(client llm.Client) GenerationServiceOption {
	return func(s *GenerationService) {
		s.client = client
	}
}

// NewGenerationService creates a new generation service
func NewGenerationService(opts ...GenerationServiceOption) *GenerationService {
	s := &GenerationService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrGenerationFailed   = errors.New("completion request failed")
	ErrInvalidModelOutput = errors.New("model output failed JSON extraction or validation")
	ErrMissingDesignData  = errors.New("design system enabled without palette and typography")
)

// Every generation endpoint samples at the same fixed temperature.
const generationTemperature = 0.8

const defaultTechStack = "Next.js (App Router), TypeScript, Tailwind, Framer Motion, Lucide React, Shadcn UI"

var (
	htmlPattern     = regexp.MustCompile(`(?i)HTML`)
	cssPattern      = regexp.MustCompile(`(?i)CSS`)
	reactPattern    = regexp.MustCompile(`(?i)REACT`)
	tailwindPattern = regexp.MustCompile(`(?i)TAILWIND`)
)

// selectTechStack picks the component tech stack from the user's prompt.
// An explicit HTML+CSS or React+Tailwind request wins over the default.
func selectTechStack(prompt string) string {
	techStack := defaultTechStack
	if htmlPattern.MatchString(prompt) && cssPattern.MatchString(prompt) {
		techStack = "HTML, CSS, JS"
	}
	if reactPattern.MatchString(prompt) && tailwindPattern.MatchString(prompt) {
		techStack = "REACT , TAILWIND CSS"
	}
	return techStack
}

// GeneratePaletteRequest represents a request to generate a color palette
type GeneratePaletteRequest struct {
	Theme string
}

// GeneratePaletteResult represents a generated color palette
type GeneratePaletteResult struct {
	Colors []models.PaletteColor
}

// GeneratePalette asks the model for a 6-color palette for a theme.
func (s *GenerationService) GeneratePalette(ctx context.Context, req GeneratePaletteRequest) (*GeneratePaletteResult, error) {
	if s.client == nil {
		return nil, errors.New("completion client not set")
	}

	prompt := fmt.Sprintf(`
Generate a 6-color palette for the theme: "%s".
Return the output strictly as a JSON array of objects, with each object containing:
[{
  "name": "<color name>",
  "hex": "<hex code>",
  "rgb": "<R, G, B>"
}]
Do NOT include any extra text, explanations, or comments.
`, req.Theme)

	raw, err := s.client.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: generationTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var colors []models.PaletteColor
	if err := llm.ExtractArray(raw, &colors); err != nil {
		return nil, ErrInvalidModelOutput
	}
	if err := validateColors(colors); err != nil {
		return nil, ErrInvalidModelOutput
	}

	return &GeneratePaletteResult{Colors: colors}, nil
}

func validateColors(colors []models.PaletteColor) error {
	if len(colors) == 0 {
		return errors.New("empty palette")
	}
	for i, c := range colors {
		if c.Name == "" || c.Hex == "" {
			return fmt.Errorf("color %d missing name or hex", i)
		}
	}
	return nil
}

// GenerateTypographyRequest represents a request to generate typography presets
type GenerateTypographyRequest struct {
	Prompt string
}

// GenerateTypographyResult represents generated typography presets
type GenerateTypographyResult struct {
	Presets []models.TypographyPreset
}

// Every preset carries the same level ladder.
var typographyLevels = []string{
	"Heading 1", "Heading 2", "Heading 3", "Heading 4",
	"Body Large", "Body", "Body Small", "Caption",
}

// GenerateTypography asks the model for typography presets matching the
// user's prompt.
func (s *GenerationService) GenerateTypography(ctx context.Context, req GenerateTypographyRequest) (*GenerateTypographyResult, error) {
	if s.client == nil {
		return nil, errors.New("completion client not set")
	}

	var levelSpec strings.Builder
	for i, level := range typographyLevels {
		if i > 0 {
			levelSpec.WriteString(",\n")
		}
		levelSpec.WriteString(fmt.Sprintf(`      {
        "level": "%s",
        "size": "<size in px or rem>",
        "weight": <weight number>,
        "sample": "<text sample>",
        "fontFamily": "<font family name>"
      }`, level))
	}

	prompt := fmt.Sprintf(`
You are a professional typography generator.
Follow the instruction carefully and provide **3 different typography presets** according to the user prompt: "%s".
Return **EXACTLY** in this JSON array format (array of presets). Each preset should include these fields:

[
  {
    "name": ["<typography name 1>", "<typography name 2>", "<typography name 3>"],
    "fontFamily": "<font family name>",
    "description": "<description>",
    "weight": <weight number>,
    "levels": [
%s
    ]
  }
]

Requirements:
- "weight" must be a **number**.
- "description" must be 10 words
- Use valid CSS sizes for "size".
- "name" must be an array with 2-3 names.
- Return only JSON, nothing else.
`, req.Prompt, levelSpec.String())

	raw, err := s.client.Complete(ctx, llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: generationTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var presets []models.TypographyPreset
	if err := llm.ExtractArray(raw, &presets); err != nil {
		return nil, ErrInvalidModelOutput
	}
	if err := validatePresets(presets); err != nil {
		return nil, ErrInvalidModelOutput
	}

	return &GenerateTypographyResult{Presets: presets}, nil
}

func validatePresets(presets []models.TypographyPreset) error {
	if len(presets) == 0 {
		return errors.New("empty preset list")
	}
	for i, p := range presets {
		if p.FontFamily == "" {
			return fmt.Errorf("preset %d missing fontFamily", i)
		}
		if len(p.Name) == 0 {
			return fmt.Errorf("preset %d missing name", i)
		}
		if len(p.Levels) == 0 {
			return fmt.Errorf("preset %d missing levels", i)
		}
	}
	return nil
}

// GenerateComponentRequest represents a request to generate a UI component.
// Palette and Typography carry the caller's design system verbatim and are
// only injected into the prompt when UseDesignSystem is set.
type GenerateComponentRequest struct {
	Prompt          string
	Palette         map[string]interface{}
	Typography      map[string]interface{}
	UseDesignSystem bool
}

// GenerateComponentResult represents a generated UI component
type GenerateComponentResult struct {
	Component *models.GeneratedComponent
}

// GenerateComponent asks the model for a UI component matching the user's
// prompt, optionally constrained to their saved design system.
func (s *GenerationService) GenerateComponent(ctx context.Context, req GenerateComponentRequest) (*GenerateComponentResult, error) {
	if s.client == nil {
		return nil, errors.New("completion client not set")
	}

	if req.UseDesignSystem {
		if len(req.Palette) == 0 || len(req.Typography) == 0 {
			return nil, ErrMissingDesignData
		}
	}

	techStack := selectTechStack(req.Prompt)

	paletteContext := "Use your own balanced and visually consistent color scheme."
	typographyContext := "Use a clean, readable, and professional typography style."
	if req.UseDesignSystem {
		if data, err := json.MarshalIndent(req.Palette, "", "  "); err == nil {
			paletteContext = string(data)
		}
		if data, err := json.MarshalIndent(req.Typography, "", "  "); err == nil {
			typographyContext = string(data)
		}
	}

	prompt := fmt.Sprintf(`
You are a senior front-end engineer and UI designer specializing in **Next.js (App Router)**, **TypeScript**, **Tailwind CSS**, **Framer Motion**, **Lucide React**, and **Shadcn UI**.
Your task is to generate a **modern, responsive, and elegant UI component** aligned with the user's creative intent.

---

### User Context
- **Prompt (Idea):** %s
- Tech Stack: %s
- **Color Palette:** %s
- **Typography:** %s

---

### Design Requirements
CRITICAL: Honor the user-specified tech stack exactly.
1. If the user requests "HTML, CSS, JS": "You must follow the user tech stack,
  Do NOT include React, Next.js, Tailwind, Framer Motion, or any other libraries".
2. If the user does not specify a stack, default to:
   "Next.js (App Router), TypeScript, Tailwind, Framer Motion, Lucide React, Shadcn UI".
3. Ensure the component is **fully responsive**, **accessible (ARIA-friendly)**, and supports both **light and dark themes** (adapt via CSS variables or Tailwind classes as per stack).
4. Incorporate **smooth and tasteful transitions or animations** using **Framer Motion** (or CSS transitions if stack-limited).
5. Keep the design consistent with modern UI/UX standards - clean layout, balanced spacing, and readable contrast.
6. Follow best practices for **code structure, naming, and TypeScript typing** (omit typing if not TypeScript stack).

---

### Output Rules
- **ONLY one file** in "codeFiles" array.
- Filename must match the component name.
- Do not generate index files, demo wrappers, or usage examples.
Additional Output Rule for previewCode:
- previewCode must include ONLY the JSX/TSX/JS of the main component.
- Do NOT include imports, exports, or any extra code.
- It should be copy-paste ready for rendering in a <div> or React component.

### Output Format
Return **only a valid JSON object**, no markdown, no explanations, exactly as follows:

{
  "description": "short description",
  "techStack": "<...>",
  "componentName": "...",
  "category": "...",
  "codeFiles": [
    { "filename": "...", "language": "<only extension>", "content": "..." }
  ],
  "previewCode": "..."
}
`, req.Prompt, techStack, paletteContext, typographyContext)

	raw, err := s.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: "You are a helpful AI that outputs ONLY valid JSON—no extra text."},
			{Role: "user", Content: prompt},
		},
		Temperature: generationTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var component models.GeneratedComponent
	if err := llm.ExtractObject(raw, &component); err != nil {
		return nil, ErrInvalidModelOutput
	}
	if err := validateComponent(&component); err != nil {
		return nil, ErrInvalidModelOutput
	}

	return &GenerateComponentResult{Component: &component}, nil
}

func validateComponent(component *models.GeneratedComponent) error {
	if component.ComponentName == "" {
		return errors.New("missing componentName")
	}
	if component.Category == "" {
		return errors.New("missing category")
	}
	if len(component.CodeFiles) == 0 {
		return errors.New("missing codeFiles")
	}
	for i, f := range component.CodeFiles {
		if f.Filename == "" || f.Content == "" {
			return fmt.Errorf("code file %d missing filename or content", i)
		}
	}
	return nil
}
