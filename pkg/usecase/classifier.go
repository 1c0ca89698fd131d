package usecase

import (
	"context"
	"strings"

	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// KeywordModel is the model identifier recorded for keyword classification
const KeywordModel = "keyword-v1"

type keywordRule struct {
	category   types.Category
	severity   types.Severity
	confidence float64
	keywords   []string
}

var keywordRules = []keywordRule{
	{types.CategoryPothole, types.SeverityCritical, 0.92, []string{"pothole", "crater", "road"}},
	{types.CategoryWaterLeakage, types.SeverityCritical, 0.88, []string{"leak", "water", "pipe", "flood"}},
	{types.CategoryBrokenLight, types.SeverityModerate, 0.85, []string{"light", "lamp", "streetlight"}},
	{types.CategoryGarbage, types.SeverityModerate, 0.9, []string{"garbage", "trash", "waste", "litter"}},
	{types.CategoryGraffiti, types.SeverityMinor, 0.8, []string{"graffiti", "paint", "vandal"}},
}

// KeywordClassifier is a deterministic stand-in for image classification.
// It matches keywords in the image reference first, then in the
// description, and falls back to other/moderate with confidence 0.5.
type KeywordClassifier struct{}

var _ Classifier = KeywordClassifier{}

// Classify implements Classifier
func (KeywordClassifier) Classify(ctx context.Context, imageURL, description string) (*model.AIAnalysis, string, error) {
	for _, text := range []string{imageURL, description} {
		text = strings.ToLower(text)
		for _, rule := range keywordRules {
			for _, kw := range rule.keywords {
				if strings.Contains(text, kw) {
					return &model.AIAnalysis{
						Category:   rule.category,
						Severity:   rule.severity,
						Confidence: rule.confidence,
					}, KeywordModel, nil
				}
			}
		}
	}

	return &model.AIAnalysis{
		Category:   types.CategoryOther,
		Severity:   types.SeverityModerate,
		Confidence: 0.5,
	}, KeywordModel, nil
}

var severityWeight = map[types.Severity]float64{
	types.SeverityCritical: 80,
	types.SeverityModerate: 50,
	types.SeverityMinor:    20,
}

// priorityScore ranks issues by severity, raised by votes and capped at 100
func priorityScore(severity types.Severity, votes int) float64 {
	score := severityWeight[severity] + float64(votes)*5
	if score > 100 {
		return 100
	}
	return score
}
