package pipeline

import (
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/config"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/extraction"
	"github.com/hankh95/clinical-bdd-creator-sub001/internal/core/model"
)

// FromConfig maps the application config onto pipeline settings.
func FromConfig(cfg *config.Config) Config {
	extra := map[model.ConceptType][]string{}
	if len(cfg.Extraction.Conditions) > 0 {
		extra[model.ConceptCondition] = cfg.Extraction.Conditions
	}
	if len(cfg.Extraction.Medications) > 0 {
		extra[model.ConceptMedication] = cfg.Extraction.Medications
	}
	if len(cfg.Extraction.Measurements) > 0 {
		extra[model.ConceptMeasurement] = cfg.Extraction.Measurements
	}
	if len(cfg.Extraction.Actions) > 0 {
		extra[model.ConceptAction] = cfg.Extraction.Actions
	}

	window := extraction.WindowSentence
	if cfg.Pipeline.Window == string(extraction.WindowToken) {
		window = extraction.WindowToken
	}

	return Config{
		RuleConfidenceThreshold: cfg.Pipeline.RuleConfidenceThreshold,
		Window:                  window,
		TokenWindow:             cfg.Pipeline.TokenWindow,
		ExtraVocabulary:         extra,
	}
}
