package providers

import "strings"

// ProviderSpec is the metadata record for one LLM provider.
type ProviderSpec struct {
	// Identity
	Name        string   // config field name, e.g. "openrouter"
	Keywords    []string // model-name keywords for matching (lowercase)
	EnvKey      string   // env var consulted when the config has no API key
	DisplayName string   // shown in `guardrail status`

	// RoutePrefix is the "<prefix>/" a model string may carry to select this
	// provider; it is stripped before the request is sent.
	RoutePrefix string

	// Gateway / local detection
	IsGateway           bool   // routes any model (OpenRouter, AiHubMix, …)
	IsLocal             bool   // local deployment (vLLM)
	DetectByKeyPrefix   string // match api_key prefix to identify gateway
	DetectByBaseKeyword string // match substring in api_base URL
	DefaultAPIBase      string // fallback base URL when none is configured

	// Gateway behaviour
	StripModelPrefix bool // strip everything up to the last "/" from the model name

	// Native Anthropic Messages API instead of OpenAI chat completions.
	IsAnthropic bool
}

// Label returns the display name, defaulting to Title-cased Name.
func (s ProviderSpec) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// PROVIDERS is the registry. Order = match priority.
var PROVIDERS = []ProviderSpec{
	{
		Name:        "custom",
		DisplayName: "Custom",
	},
	{
		Name:                "openrouter",
		Keywords:            []string{"openrouter"},
		EnvKey:              "OPENROUTER_API_KEY",
		DisplayName:         "OpenRouter",
		RoutePrefix:         "openrouter",
		IsGateway:           true,
		DetectByKeyPrefix:   "sk-or-",
		DetectByBaseKeyword: "openrouter",
		DefaultAPIBase:      "https://openrouter.ai/api/v1",
	},
	{
		Name:                "aihubmix",
		Keywords:            []string{"aihubmix"},
		EnvKey:              "AIHUBMIX_API_KEY",
		DisplayName:         "AiHubMix",
		RoutePrefix:         "aihubmix",
		IsGateway:           true,
		DetectByBaseKeyword: "aihubmix",
		DefaultAPIBase:      "https://aihubmix.com/v1",
		StripModelPrefix:    true,
	},
	{
		Name:                "anthropic",
		Keywords:            []string{"anthropic", "claude"},
		EnvKey:              "ANTHROPIC_API_KEY",
		DisplayName:         "Anthropic",
		RoutePrefix:         "anthropic",
		DetectByBaseKeyword: "anthropic.com",
		IsAnthropic:         true,
	},
	{
		Name:           "openai",
		Keywords:       []string{"openai", "gpt"},
		EnvKey:         "OPENAI_API_KEY",
		DisplayName:    "OpenAI",
		RoutePrefix:    "openai",
		DefaultAPIBase: "https://api.openai.com/v1",
	},
	{
		Name:           "deepseek",
		Keywords:       []string{"deepseek"},
		EnvKey:         "DEEPSEEK_API_KEY",
		DisplayName:    "DeepSeek",
		RoutePrefix:    "deepseek",
		DefaultAPIBase: "https://api.deepseek.com/v1",
	},
	{
		Name:           "gemini",
		Keywords:       []string{"gemini"},
		EnvKey:         "GEMINI_API_KEY",
		DisplayName:    "Gemini",
		RoutePrefix:    "gemini",
		DefaultAPIBase: "https://generativelanguage.googleapis.com/v1beta/openai",
	},
	{
		Name:           "moonshot",
		Keywords:       []string{"moonshot", "kimi"},
		EnvKey:         "MOONSHOT_API_KEY",
		DisplayName:    "Moonshot",
		RoutePrefix:    "moonshot",
		DefaultAPIBase: "https://api.moonshot.ai/v1",
	},
	{
		Name:           "groq",
		Keywords:       []string{"groq"},
		EnvKey:         "GROQ_API_KEY",
		DisplayName:    "Groq",
		RoutePrefix:    "groq",
		DefaultAPIBase: "https://api.groq.com/openai/v1",
	},
	{
		Name:        "vllm",
		Keywords:    []string{"vllm"},
		EnvKey:      "HOSTED_VLLM_API_KEY",
		DisplayName: "vLLM/Local",
		RoutePrefix: "hosted_vllm",
		IsLocal:     true,
	},
}

// FindByModel matches a standard provider by model-name keyword (case-insensitive).
// Skips gateways and local providers; those are matched by api_key/api_base.
func FindByModel(model string) *ProviderSpec {
	modelLower := strings.ToLower(model)
	modelNorm := strings.ReplaceAll(modelLower, "-", "_")
	modelPrefix, _, _ := strings.Cut(modelLower, "/")
	normalizedPrefix := strings.ReplaceAll(modelPrefix, "-", "_")

	var std []int
	for i := range PROVIDERS {
		if !PROVIDERS[i].IsGateway && !PROVIDERS[i].IsLocal {
			std = append(std, i)
		}
	}

	// Prefer explicit provider prefix.
	for _, i := range std {
		spec := &PROVIDERS[i]
		if modelPrefix != "" && normalizedPrefix == spec.Name {
			return spec
		}
	}

	for _, i := range std {
		spec := &PROVIDERS[i]
		for _, kw := range spec.Keywords {
			kw = strings.ToLower(kw)
			kwNorm := strings.ReplaceAll(kw, "-", "_")
			if strings.Contains(modelLower, kw) || strings.Contains(modelNorm, kwNorm) {
				return spec
			}
		}
	}
	return nil
}

// FindGateway detects the gateway or local provider.
// Priority: (1) explicit provider_name, (2) api_key prefix, (3) api_base keyword.
func FindGateway(providerName, apiKey, apiBase string) *ProviderSpec {
	if providerName != "" {
		if s := FindByName(providerName); s != nil && (s.IsGateway || s.IsLocal) {
			return s
		}
	}
	for i := range PROVIDERS {
		spec := &PROVIDERS[i]
		if !spec.IsGateway && !spec.IsLocal {
			continue
		}
		if spec.DetectByKeyPrefix != "" && strings.HasPrefix(apiKey, spec.DetectByKeyPrefix) {
			return spec
		}
		if spec.DetectByBaseKeyword != "" && strings.Contains(apiBase, spec.DetectByBaseKeyword) {
			return spec
		}
	}
	return nil
}

// FindByName returns the ProviderSpec whose Name equals name.
func FindByName(name string) *ProviderSpec {
	for i := range PROVIDERS {
		if PROVIDERS[i].Name == name {
			return &PROVIDERS[i]
		}
	}
	return nil
}
