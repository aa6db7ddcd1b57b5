// Package dependency wires core guardrail services using go.uber.org/dig.
package dependency

import (
	"fmt"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/crystaldolphin/guardrail/internal/classify"
	"github.com/crystaldolphin/guardrail/internal/config"
	"github.com/crystaldolphin/guardrail/internal/contract"
	"github.com/crystaldolphin/guardrail/internal/dispatch"
	"github.com/crystaldolphin/guardrail/internal/mcp"
	"github.com/crystaldolphin/guardrail/internal/providers"
	"github.com/crystaldolphin/guardrail/internal/schema"
)

// ServiceContainer holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type ServiceContainer struct {
	provider   schema.LLMProvider
	model      LLMModel
	contract   *contract.Contract
	classifier *classify.Classifier
	dispatcher *dispatch.Dispatcher
	opener     *mcp.Opener
}

func (c *ServiceContainer) Provider() schema.LLMProvider     { return c.provider }
func (c *ServiceContainer) Model() string                    { return string(c.model) }
func (c *ServiceContainer) Contract() *contract.Contract     { return c.contract }
func (c *ServiceContainer) Classifier() *classify.Classifier { return c.classifier }
func (c *ServiceContainer) Dispatcher() *dispatch.Dispatcher { return c.dispatcher }
func (c *ServiceContainer) ToolServer() *mcp.Opener          { return c.opener }

// LLMModel is a named string type so dig can distinguish it from plain
// strings when injecting the effective model name.
type LLMModel string

// New builds and wires all core services from cfg.
func New(cfg *config.Config, logger *zap.Logger) (*ServiceContainer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() *zap.Logger { return logger }); err != nil {
		return nil, err
	}
	if err := d.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := d.Provide(resolveLLMModel); err != nil {
		return nil, err
	}
	if err := d.Provide(NewContract); err != nil {
		return nil, err
	}
	if err := d.Provide(newClassifier); err != nil {
		return nil, err
	}
	if err := d.Provide(newCatalog); err != nil {
		return nil, err
	}
	if err := d.Provide(newToolOpener); err != nil {
		return nil, err
	}
	if err := d.Provide(newDispatcher); err != nil {
		return nil, err
	}

	var result *ServiceContainer
	err := d.Invoke(func(
		provider schema.LLMProvider,
		model LLMModel,
		c *contract.Contract,
		classifier *classify.Classifier,
		dispatcher *dispatch.Dispatcher,
		opener *mcp.Opener,
	) {
		result = &ServiceContainer{
			provider:   provider,
			model:      model,
			contract:   c,
			classifier: classifier,
			dispatcher: dispatcher,
			opener:     opener,
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	model := cfg.Agents.Defaults.Model
	result := cfg.MatchProvider(model)

	if result.Provider == nil {
		return nil, fmt.Errorf("no API key configured for model %q: edit %s or set the provider's API key variable", model, config.ConfigPath())
	}

	apiBase := result.Provider.APIBase
	if apiBase == "" {
		apiBase = cfg.GetAPIBase(model)
	}
	return providers.New(providers.Params{
		APIKey:       result.Provider.APIKey,
		APIBase:      apiBase,
		ExtraHeaders: result.Provider.ExtraHeaders,
		DefaultModel: model,
		ProviderName: result.Name,
	}), nil
}

func resolveLLMModel(cfg *config.Config, p schema.LLMProvider) LLMModel {
	m := cfg.Agents.Defaults.Model
	if m == "" {
		m = p.DefaultModel()
	}
	return LLMModel(m)
}

// NewContract builds the classification contract from cfg. It needs no
// provider, so commands that only describe the contract can call it directly.
func NewContract(cfg *config.Config) (*contract.Contract, error) {
	c, err := contract.EmailTriage(cfg.Contract.Categories, cfg.Contract.Urgency, cfg.Contract.SummaryMaxLen)
	if err != nil {
		return nil, fmt.Errorf("contract config: %w", err)
	}
	return c, nil
}

func newClassifier(cfg *config.Config, p schema.LLMProvider, m LLMModel, c *contract.Contract, logger *zap.Logger) *classify.Classifier {
	return classify.New(p, c, classify.Options{
		Model:       string(m),
		MaxTokens:   cfg.Agents.Defaults.MaxTokens,
		CallTimeout: cfg.Agents.Defaults.CallTimeout(),
		Logger:      logger.Named("classify"),
	})
}

func newCatalog(cfg *config.Config) (*dispatch.Catalog, error) {
	specs := dispatch.WeatherTools()
	for _, t := range cfg.Tools.Declared {
		spec, err := dispatch.DeclaredTool(t.Name, t.Description, t.Parameters)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return dispatch.NewCatalog(specs...)
}

func newToolOpener(cfg *config.Config, logger *zap.Logger) (*mcp.Opener, error) {
	name, srv, err := cfg.DispatchServer()
	if err != nil {
		return nil, err
	}
	return mcp.NewOpener(name, mcp.ServerConfig{
		Command: srv.Command,
		Args:    srv.Args,
		Env:     srv.Env,
		URL:     srv.URL,
		Headers: srv.Headers,
	}, logger.Named("mcp")), nil
}

func newDispatcher(
	cfg *config.Config,
	p schema.LLMProvider,
	m LLMModel,
	catalog *dispatch.Catalog,
	opener *mcp.Opener,
	logger *zap.Logger,
) *dispatch.Dispatcher {
	return dispatch.New(p, catalog, opener, dispatch.Options{
		Model:       string(m),
		MaxTokens:   cfg.Agents.Defaults.MaxTokens,
		Temperature: cfg.Agents.Defaults.Temperature,
		CallTimeout: cfg.Agents.Defaults.CallTimeout(),
		Strict:      cfg.Tools.Strict,
		Logger:      logger.Named("dispatch"),
	})
}
