package service

import (
	"context"
	"errors"
	"testing"

	"hueforge-backend/llm"

	"github.com/stretchr/testify/assert"
)

type stubCompletionClient struct {
	reply   string
	err     error
	lastReq llm.Request
}

func (c *stubCompletionClient) Complete(_ context.Context, req llm.Request) (string, error) {
	c.lastReq = req
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func TestSelectTechStack(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"no stack mentioned", "a pricing card for a saas landing page", defaultTechStack},
		{"html and css", "a login form in html and css", "HTML, CSS, JS"},
		{"case insensitive html css", "Build it with HTML and CSS please", "HTML, CSS, JS"},
		{"react and tailwind", "a react navbar styled with tailwind", "REACT , TAILWIND CSS"},
		{"html alone is not enough", "render the html preview", defaultTechStack},
		{"react alone is not enough", "a react component", defaultTechStack},
		{"react tailwind wins over html css", "port this html css form to react with tailwind", "REACT , TAILWIND CSS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectTechStack(tt.prompt))
		})
	}
}

func TestGeneratePalette(t *testing.T) {
	t.Run("valid reply", func(t *testing.T) {
		client := &stubCompletionClient{
			reply: `[{"name":"Deep Ocean","hex":"#013a63","rgb":"1, 58, 99"},{"name":"Foam","hex":"#eaf4f4","rgb":"234, 244, 244"}]`,
		}
		svc := NewGenerationService(WithCompletionClient(client))

		result, err := svc.GeneratePalette(context.Background(), GeneratePaletteRequest{Theme: "ocean"})
		assert.NoError(t, err)
		assert.Len(t, result.Colors, 2)
		assert.Equal(t, "Deep Ocean", result.Colors[0].Name)
		assert.Equal(t, "#013a63", result.Colors[0].Hex)
		assert.Equal(t, 0.8, client.lastReq.Temperature)
	})

	t.Run("fenced reply", func(t *testing.T) {
		client := &stubCompletionClient{
			reply: "```json\n[{\"name\":\"Ink\",\"hex\":\"#111\",\"rgb\":\"17, 17, 17\"}]\n```",
		}
		svc := NewGenerationService(WithCompletionClient(client))

		result, err := svc.GeneratePalette(context.Background(), GeneratePaletteRequest{Theme: "mono"})
		assert.NoError(t, err)
		assert.Len(t, result.Colors, 1)
	})

	t.Run("reply with no json", func(t *testing.T) {
		client := &stubCompletionClient{reply: "I am unable to produce a palette."}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GeneratePalette(context.Background(), GeneratePaletteRequest{Theme: "ocean"})
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("color missing hex fails validation", func(t *testing.T) {
		client := &stubCompletionClient{reply: `[{"name":"Ghost","rgb":"0, 0, 0"}]`}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GeneratePalette(context.Background(), GeneratePaletteRequest{Theme: "ocean"})
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("completion failure", func(t *testing.T) {
		client := &stubCompletionClient{err: errors.New("API error: 500")}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GeneratePalette(context.Background(), GeneratePaletteRequest{Theme: "ocean"})
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})
}

func TestGenerateTypography(t *testing.T) {
	validReply := `[{"name":["Editorial","Serif Duo"],"fontFamily":"Playfair Display","description":"an elegant editorial pairing with confident contrast and rhythm","weight":600,"levels":[{"level":"Heading 1","size":"3rem","weight":700,"sample":"Aa","fontFamily":"Playfair Display"}]}]`

	t.Run("valid reply", func(t *testing.T) {
		client := &stubCompletionClient{reply: validReply}
		svc := NewGenerationService(WithCompletionClient(client))

		result, err := svc.GenerateTypography(context.Background(), GenerateTypographyRequest{Prompt: "editorial magazine"})
		assert.NoError(t, err)
		assert.Len(t, result.Presets, 1)
		assert.Equal(t, "Playfair Display", result.Presets[0].FontFamily)
		assert.Equal(t, 0.8, client.lastReq.Temperature)
	})

	t.Run("preset missing levels fails validation", func(t *testing.T) {
		client := &stubCompletionClient{
			reply: `[{"name":["Bare"],"fontFamily":"Inter","description":"d","weight":400,"levels":[]}]`,
		}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GenerateTypography(context.Background(), GenerateTypographyRequest{Prompt: "minimal"})
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("unparseable reply", func(t *testing.T) {
		client := &stubCompletionClient{reply: "typography is the art of arranging type"}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GenerateTypography(context.Background(), GenerateTypographyRequest{Prompt: "minimal"})
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})
}

func TestGenerateComponent(t *testing.T) {
	validReply := `{"description":"a glassy pricing card","techStack":"Next.js (App Router), TypeScript, Tailwind","componentName":"PricingCard","category":"cards","codeFiles":[{"filename":"PricingCard.tsx","language":"tsx","content":"export function PricingCard() {}"}],"previewCode":"<PricingCard />"}`

	t.Run("valid reply", func(t *testing.T) {
		client := &stubCompletionClient{reply: validReply}
		svc := NewGenerationService(WithCompletionClient(client))

		result, err := svc.GenerateComponent(context.Background(), GenerateComponentRequest{Prompt: "a pricing card"})
		assert.NoError(t, err)
		assert.Equal(t, "PricingCard", result.Component.ComponentName)
		assert.Equal(t, "cards", result.Component.Category)
		assert.Len(t, result.Component.CodeFiles, 1)

		// system message comes first, then the user prompt
		assert.Len(t, client.lastReq.Messages, 2)
		assert.Equal(t, "system", client.lastReq.Messages[0].Role)
	})

	t.Run("design system without palette", func(t *testing.T) {
		client := &stubCompletionClient{reply: validReply}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GenerateComponent(context.Background(), GenerateComponentRequest{
			Prompt:          "a pricing card",
			UseDesignSystem: true,
			Typography:      map[string]interface{}{"fontFamily": "Inter"},
		})
		assert.ErrorIs(t, err, ErrMissingDesignData)
	})

	t.Run("design system injected into prompt", func(t *testing.T) {
		client := &stubCompletionClient{reply: validReply}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GenerateComponent(context.Background(), GenerateComponentRequest{
			Prompt:          "a pricing card",
			UseDesignSystem: true,
			Palette:         map[string]interface{}{"primary": "#013a63"},
			Typography:      map[string]interface{}{"fontFamily": "Inter"},
		})
		assert.NoError(t, err)
		assert.Contains(t, client.lastReq.Messages[1].Content, "#013a63")
		assert.Contains(t, client.lastReq.Messages[1].Content, "Inter")
	})

	t.Run("reply missing componentName", func(t *testing.T) {
		client := &stubCompletionClient{
			reply: `{"category":"cards","codeFiles":[{"filename":"a.tsx","language":"tsx","content":"x"}]}`,
		}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GenerateComponent(context.Background(), GenerateComponentRequest{Prompt: "a card"})
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})

	t.Run("reply with empty codeFiles", func(t *testing.T) {
		client := &stubCompletionClient{
			reply: `{"componentName":"Card","category":"cards","codeFiles":[]}`,
		}
		svc := NewGenerationService(WithCompletionClient(client))

		_, err := svc.GenerateComponent(context.Background(), GenerateComponentRequest{Prompt: "a card"})
		assert.ErrorIs(t, err, ErrInvalidModelOutput)
	})
}
