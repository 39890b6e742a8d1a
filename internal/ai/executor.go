// Package ai is the boundary to the AI capability: execute(company, model, prompt) under a time budget.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is the time budget of a single AI request
const DefaultTimeout = 180 * time.Second

// Request is what a provider receives
type Request struct {
	CompanyName string
	ModelName   string
	ModelID     string
	Prompt      string
}

// Provider generates text for a prompt
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Result is the outcome of an AI request. Error is set only when Success is false.
type Result struct {
	Success    bool   `json:"success"`
	Content    string `json:"content,omitempty"`
	Error      string `json:"error,omitempty"`
	ModelUsed  string `json:"model_used"`
	PromptUsed string `json:"-"`
}

// Option changes a single Execute call
type Option func(*callOptions)

type callOptions struct {
	online bool
}

// WithOnline overrides the configured online augmentation flag
func WithOnline(online bool) Option {
	return func(o *callOptions) {
		o.online = online
	}
}

// Executor runs prompts against providers with a timeout guard
type Executor struct {
	defaultProvider Provider
	providers       map[string]Provider
	timeout         time.Duration
	useOnline       bool
	logger          *zap.Logger
}

// NewExecutor creates an executor sending requests to defaultProvider
func NewExecutor(defaultProvider Provider, timeout time.Duration, useOnline bool, logger *zap.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		defaultProvider: defaultProvider,
		providers:       make(map[string]Provider),
		timeout:         timeout,
		useOnline:       useOnline,
		logger:          logger,
	}
}

// Route sends requests for models of companyName to provider instead of the default one
func (e *Executor) Route(companyName string, provider Provider) {
	e.providers[strings.ToLower(companyName)] = provider
}

// Execute runs prompt on the model and never returns an error: failures, including
// the timeout, are reported through Result.
//
// On timeout Execute stops waiting and returns; the provider call is cancelled through its
// context but may still finish in the background.
func (e *Executor) Execute(ctx context.Context, companyName, modelName, prompt string, opts ...Option) Result {
	options := callOptions{online: e.useOnline}
	for _, opt := range opts {
		opt(&options)
	}

	req := Request{
		CompanyName: companyName,
		ModelName:   modelName,
		ModelID:     ModelID(companyName, modelName, options.online),
		Prompt:      prompt,
	}
	log := e.logger.With(zap.String("model", req.ModelID))
	log.Info("executing AI request",
		zap.Int("prompt_length", len(prompt)),
		zap.Duration("timeout", e.timeout),
	)

	start := time.Now()
	content, err := e.generate(ctx, e.providerFor(companyName), req)
	if err != nil {
		log.Error("AI request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return Result{
			Success:    false,
			Error:      err.Error(),
			ModelUsed:  fmt.Sprintf("%s/%s", companyName, modelName),
			PromptUsed: prompt,
		}
	}

	log.Info("AI request completed", zap.Duration("duration", time.Since(start)), zap.Int("content_length", len(content)))
	return Result{
		Success:    true,
		Content:    content,
		ModelUsed:  req.ModelID,
		PromptUsed: prompt,
	}
}

type generateOutcome struct {
	content string
	err     error
}

func (e *Executor) generate(ctx context.Context, provider Provider, req Request) (string, error) {
	if provider == nil {
		return "", errors.New("no AI provider configured")
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(parent, e.timeout)
	defer cancel()

	done := make(chan generateOutcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- generateOutcome{err: fmt.Errorf("AI provider panicked: %v", rec)}
			}
		}()
		content, err := provider.Generate(ctx, req)
		done <- generateOutcome{content: content, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) || errors.Is(out.err, context.Canceled) {
				if ctxErr := e.contextError(parent, ctx); ctxErr != nil {
					return "", ctxErr
				}
			}
			return "", out.err
		}
		return out.content, nil
	case <-ctx.Done():
		return "", e.contextError(parent, ctx)
	}
}

// contextError tells the executor's own timeout apart from the caller's cancellation or
// deadline. It returns nil while ctx is still live.
func (e *Executor) contextError(parent, ctx context.Context) error {
	if err := parent.Err(); err != nil {
		return fmt.Errorf("AI request cancelled: %w", err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return e.timeoutError()
	}
	return nil
}

func (e *Executor) timeoutError() error {
	return fmt.Errorf("AI request timed out after %dms", e.timeout.Milliseconds())
}

func (e *Executor) providerFor(companyName string) Provider {
	if p, ok := e.providers[strings.ToLower(companyName)]; ok {
		return p
	}
	return e.defaultProvider
}
