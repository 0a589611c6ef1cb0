package internal

import "github.com/starford/nutriguide/internal/inference"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	classifier inference.ImageClassifier
	textgen    inference.TextGenerator
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClassifier injects a pre-built image classifier, bypassing the
// config-driven construction (used in tests).
func WithClassifier(c inference.ImageClassifier) Option {
	return func(a *application) {
		a.classifier = c
	}
}

// WithTextGenerator injects a pre-built text generator, bypassing the
// config-driven construction (used in tests).
func WithTextGenerator(g inference.TextGenerator) Option {
	return func(a *application) {
		a.textgen = g
	}
}
