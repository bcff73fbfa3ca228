package recommend

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	intlog "github.com/disha-labs/intern-recommender/internal/logger"
)

// contentGenerator is the slice of the text backend the paraphraser needs.
type contentGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Paraphraser rewrites the deterministic explanation into friendlier prose.
// It is strictly cosmetic: any failure keeps the original text, and the
// numeric breakdown is never touched.
type Paraphraser struct {
	generator contentGenerator
	logger    *zap.Logger
}

// NewParaphraser creates a paraphraser. A nil generator disables it.
func NewParaphraser(generator contentGenerator, logger *zap.Logger) *Paraphraser {
	return &Paraphraser{generator: generator, logger: logger}
}

// Enabled reports whether a text backend is configured.
func (p *Paraphraser) Enabled() bool {
	return p != nil && p.generator != nil
}

// Rewrite replaces each recommendation's explanation text with a paraphrase
// when generation succeeds. Recommendations are modified in place.
func (p *Paraphraser) Rewrite(ctx context.Context, recs []*Recommendation) {
	if !p.Enabled() {
		return
	}

	for _, rec := range recs {
		prompt := fmt.Sprintf(
			"Rewrite this internship recommendation in one or two friendly sentences for a student. "+
				"Keep every fact, do not add new claims, do not mention scores as raw numbers.\n\n%s",
			rec.ExplainText)

		text, err := p.generator.GenerateText(ctx, prompt)
		if err != nil {
			p.logger.Warn("explanation paraphrase failed, keeping base text",
				zap.String("internship_id", rec.InternshipID),
				zap.Error(err),
			)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		p.logger.Debug("explanation paraphrased",
			zap.String("internship_id", rec.InternshipID),
			zap.String("text", intlog.TruncateForLog(text, 120)),
		)
		rec.ExplainText = text
	}
}
