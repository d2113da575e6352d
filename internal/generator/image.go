package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// ImageProvider generates a single campaign image and returns its URL.
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type openAIImages struct {
	client *openai.Client
	model  string
}

// NewImageProvider wraps an OpenAI client as an ImageProvider.
func NewImageProvider(client *openai.Client, model string) ImageProvider {
	return &openAIImages{client: client, model: model}
}

func (p *openAIImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:   openai.ImageModel(p.model),
		Prompt:  prompt,
		Size:    openai.ImageGenerateParamsSize1024x1024,
		Quality: openai.ImageGenerateParamsQualityStandard,
		N:       openai.Int(1),
	})
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("image generation returned no data")
	}
	return resp.Data[0].URL, nil
}

// ImagePrompt derives a product-image prompt from the brief. The
// product category heuristics pick a visual style: software gets a
// device mockup, hardware a studio shot, services a graphic.
func ImagePrompt(brief Brief) string {
	product := orDefault(brief.ProductName, "product")
	description := brief.ProductDescription
	productLower := strings.ToLower(product + description)

	var prompt string
	switch {
	case containsAny(productLower, "app", "mobile", "software", "platform", "saas"):
		if strings.Contains(productLower, "mobile") || strings.Contains(productLower, "app") {
			prompt = fmt.Sprintf("Modern smartphone mockup displaying %s mobile app interface, clean UI design, professional product photography, white background, high quality commercial style", product)
		} else {
			prompt = fmt.Sprintf("Modern laptop displaying %s web application dashboard, clean professional interface, office environment, commercial photography style", product)
		}
	case containsAny(productLower, "physical", "device", "gadget", "tool", "hardware"):
		prompt = fmt.Sprintf("Professional product photography of %s, clean white studio background, perfect lighting, commercial product shot, high resolution", product)
	case containsAny(productLower, "service", "consulting", "business"):
		prompt = fmt.Sprintf("Modern professional graphic representing %s service, clean minimal design, business style, commercial quality", product)
	default:
		prompt = fmt.Sprintf("Professional marketing visual for %s, modern clean aesthetic, %s, commercial photography style, high quality", product, excerpt(description, 50))
	}

	return prompt + ", professional, clean, modern, high quality, commercial grade"
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
