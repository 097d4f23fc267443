package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/w-h-a/finrag/generator"
)

type openAIGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, systemPrompt string, contextBlock string, question string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     g.options.Model,
		MaxTokens: g.options.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: generator.BuildPrompt(contextBlock, question),
			},
		},
	}

	rsp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return generator.CleanAnswer(rsp.Choices[0].Message.Content), nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &openAIGenerator{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	g.client = client

	return g
}
