package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

// ClientConfig contains configuration for creating an AnthropicClassifier.
type ClientConfig struct {
	// Model is the Claude model to use. Defaults to Sonnet.
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// AnthropicClassifier is a Classifier backed by the Anthropic API.
type AnthropicClassifier struct {
	inner anthropic.Client
	model anthropic.Model
}

// NewAnthropicClassifier creates a classifier over either the direct API or
// AWS Bedrock, depending on the config.
func NewAnthropicClassifier(cfg ClientConfig) (*AnthropicClassifier, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	if cfg.UseAWSBedrock {
		model = translateModelForBedrock(model)
	}

	return &AnthropicClassifier{
		inner: anthropic.NewClient(opts...),
		model: model,
	}, nil
}

// translateModelForBedrock converts standard Anthropic model names to Bedrock
// cross-region inference profile format: us.anthropic.{model}-v1:0
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}

	if bedrockModel, ok := bedrockModels[model]; ok {
		return anthropic.Model(bedrockModel)
	}
	return model
}

const classifyPrompt = `You are planning parallel development work. Decompose the
work item below into independent agents, each with an exclusive set of files.
No file may appear in two agents' lists.

## Work item
%s

## Project context
%s

Respond with a single JSON object and nothing else:
{
  "agents": [
    {
      "domain": "short domain tag, e.g. auth, data, ui",
      "role": "role name, e.g. auth_specialist",
      "focus_area": "one-line description of this agent's scope",
      "files_to_create": ["path", ...],
      "files_to_modify": ["path", ...]
    }
  ],
  "project_type": "e.g. web-app, cli, library",
  "confidence": 0.0,
  "reasoning": "one short paragraph"
}

Set confidence to your honest estimate (0..1) that this decomposition is
complete and the file sets are disjoint.`

// Classify asks the model for a whole-plan decomposition suggestion.
func (c *AnthropicClassifier) Classify(ctx context.Context, req Request) (*Suggestion, error) {
	prompt := fmt.Sprintf(classifyPrompt, req.Description, req.ProjectContext)

	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("classify request: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	suggestion, err := ParseSuggestion(text.String())
	if err != nil {
		return nil, fmt.Errorf("parse classifier response: %w", err)
	}
	return suggestion, nil
}

// ParseSuggestion extracts the JSON object from a model response that may be
// wrapped in prose or code fences.
func ParseSuggestion(response string) (*Suggestion, error) {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		preview := response
		if len(preview) > 500 {
			preview = preview[:500] + "... (truncated)"
		}
		return nil, fmt.Errorf("no JSON object found in response (got %d chars): %q", len(response), preview)
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &s); err != nil {
		return nil, fmt.Errorf("unmarshal suggestion: %w", err)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return nil, fmt.Errorf("confidence %v out of range [0,1]", s.Confidence)
	}
	return &s, nil
}
