package scoring

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spacesedan/hypewatch/internal/models"
)

func kw(total int) models.KeywordResult {
	sev := models.SeverityLow
	switch {
	case total > 7:
		sev = models.SeverityHigh
	case total >= 3:
		sev = models.SeverityMedium
	}
	unique := 0
	if total > 0 {
		unique = 1
	}
	return models.KeywordResult{TotalMatches: total, UniqueMatches: unique, Severity: sev}
}

func exag(total int) models.ExaggerationResult {
	sev := models.SeverityLow
	switch {
	case total > 4:
		sev = models.SeverityHigh
	case total >= 2:
		sev = models.SeverityMedium
	}
	return models.ExaggerationResult{TotalExaggerations: total, Severity: sev}
}

func disclaimer(present bool) models.DisclaimerResult {
	return models.DisclaimerResult{HasDisclaimer: present, MissingDisclaimer: !present}
}

func sentiment(ratio float64) models.SentimentSummary {
	label := models.SentimentNeutral
	if ratio > 0.5 {
		label = models.SentimentPositive
	}
	return models.SentimentSummary{Label: label, PositiveRatio: ratio}
}

func TestComposeHype_Breakdown(t *testing.T) {
	t.Parallel()
	got := ComposeHype(kw(4), disclaimer(false), exag(2), sentiment(0.4))
	want := models.HypeScore{
		Score: 52,
		Label: models.RiskMedium,
		Breakdown: map[string]float64{
			models.BreakdownHypeKeywords:      10,
			models.BreakdownMissingDisclaimer: 20,
			models.BreakdownExaggeration:      12,
			models.BreakdownSentiment:         10,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComposeHype mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeHype_SingleKeyword(t *testing.T) {
	t.Parallel()
	got := ComposeHype(kw(1), disclaimer(true), exag(0), sentiment(0))
	if got.Score != 2.5 || got.Label != models.RiskLow {
		t.Errorf("got %+v, want 2.5 Low", got)
	}
}

func TestComposeHype_CapsPerSignal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		matches   int
		wantKW    float64
		wantScore float64
	}{
		{matches: 8, wantKW: 20, wantScore: 40},
		{matches: 10, wantKW: 25, wantScore: 45},
		{matches: 14, wantKW: 25, wantScore: 45},
	}
	for _, tt := range tests {
		got := ComposeHype(kw(tt.matches), disclaimer(false), exag(0), sentiment(0))
		if got.Breakdown[models.BreakdownHypeKeywords] != tt.wantKW {
			t.Errorf("%d matches: keyword contribution = %v, want %v", tt.matches, got.Breakdown[models.BreakdownHypeKeywords], tt.wantKW)
		}
		if got.Score != tt.wantScore {
			t.Errorf("%d matches: score = %v, want %v", tt.matches, got.Score, tt.wantScore)
		}
	}

	maxed := ComposeHype(kw(1000), disclaimer(false), exag(1000), sentiment(1))
	if maxed.Score != 100 || maxed.Label != models.RiskVeryHigh {
		t.Errorf("maxed = %+v, want 100 Very High", maxed)
	}
	if maxed.Breakdown[models.BreakdownExaggeration] != 30 {
		t.Errorf("exaggeration contribution = %v, want 30", maxed.Breakdown[models.BreakdownExaggeration])
	}
}

func TestComposeHype_UnknownSentimentAddsNothing(t *testing.T) {
	t.Parallel()
	sent := models.SentimentSummary{Label: models.SentimentUnknown, PositiveRatio: 0.9}
	got := ComposeHype(kw(0), disclaimer(true), exag(0), sent)
	if got.Score != 0 {
		t.Errorf("score = %v, want 0 with unknown sentiment", got.Score)
	}
}

func TestComposeHype_BreakdownSumsToScore(t *testing.T) {
	t.Parallel()
	for k := 0; k < 15; k += 3 {
		for e := 0; e < 8; e += 2 {
			got := ComposeHype(kw(k), disclaimer(k%2 == 0), exag(e), sentiment(float64(e)/10))
			if sum := round(total(got.Breakdown), 2); sum != got.Score {
				t.Errorf("k=%d e=%d: breakdown sums to %v, score %v", k, e, sum, got.Score)
			}
			for name, v := range got.Breakdown {
				if v < 0 {
					t.Errorf("k=%d e=%d: %s contribution negative: %v", k, e, name, v)
				}
			}
		}
	}
}

func TestCompose_Monotonic(t *testing.T) {
	t.Parallel()
	ratios := []float64{0, 0.1, 0.3, 0.5, 0.6, 0.9, 1}
	for _, present := range []bool{true, false} {
		prevHype, prevRisk := -1.0, -1.0
		for n := 0; n <= 40; n++ {
			h := ComposeHype(kw(n), disclaimer(present), exag(2), sentiment(0.2))
			r := ComposeRisk(kw(n), disclaimer(present), exag(2), sentiment(0.2))
			if h.Score < prevHype || r.Score < prevRisk {
				t.Fatalf("keyword count %d decreased the score", n)
			}
			prevHype, prevRisk = h.Score, r.Score
		}

		prevHype, prevRisk = -1.0, -1.0
		for n := 0; n <= 40; n++ {
			h := ComposeHype(kw(2), disclaimer(present), exag(n), sentiment(0.2))
			r := ComposeRisk(kw(2), disclaimer(present), exag(n), sentiment(0.2))
			if h.Score < prevHype || r.Score < prevRisk {
				t.Fatalf("exaggeration count %d decreased the score", n)
			}
			if h.Score > HypeScoreMax || r.Score > RiskScoreMax {
				t.Fatalf("score exceeds bound: hype %v risk %v", h.Score, r.Score)
			}
			prevHype, prevRisk = h.Score, r.Score
		}

		prevHype, prevRisk = -1.0, -1.0
		for _, ratio := range ratios {
			h := ComposeHype(kw(2), disclaimer(present), exag(2), sentiment(ratio))
			r := ComposeRisk(kw(2), disclaimer(present), exag(2), sentiment(ratio))
			if h.Score < prevHype || r.Score < prevRisk {
				t.Fatalf("positive ratio %v decreased the score", ratio)
			}
			prevHype, prevRisk = h.Score, r.Score
		}
	}
}

func TestComposeRisk(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		kw          models.KeywordResult
		disc        models.DisclaimerResult
		exag        models.ExaggerationResult
		sent        models.SentimentSummary
		wantScore   float64
		wantLabel   models.RiskLabel
		wantReasons []string
	}{
		{
			name:        "clean",
			kw:          kw(0),
			disc:        disclaimer(true),
			exag:        exag(0),
			sent:        sentiment(0),
			wantScore:   0,
			wantLabel:   models.RiskLow,
			wantReasons: []string{},
		},
		{
			name:      "missing disclaimer only",
			kw:        kw(0),
			disc:      disclaimer(false),
			exag:      exag(0),
			sent:      sentiment(0),
			wantScore: 2,
			wantLabel: models.RiskLow,
			wantReasons: []string{
				"No financial disclaimer found: +2",
			},
		},
		{
			name:      "medium signals",
			kw:        kw(3),
			disc:      disclaimer(false),
			exag:      exag(2),
			sent:      sentiment(0.4),
			wantScore: 2 + 2 + 1.5 + 1.5,
			wantLabel: models.RiskHigh,
			wantReasons: []string{
				"3 hype keyword match(es) across 1 phrase(s), medium severity: +2",
				"No financial disclaimer found: +2",
				"2 exaggerated claim(s), medium severity: +1.5",
				"40% of analyzed chunks read as positive: +1.5",
			},
		},
		{
			name:      "everything maxed",
			kw:        kw(50),
			disc:      disclaimer(false),
			exag:      exag(50),
			sent:      sentiment(1),
			wantScore: 10,
			wantLabel: models.RiskVeryHigh,
			wantReasons: []string{
				"50 hype keyword match(es) across 1 phrase(s), high severity: +3",
				"No financial disclaimer found: +2",
				"50 exaggerated claim(s), high severity: +2",
				"100% of analyzed chunks read as positive: +3",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComposeRisk(tt.kw, tt.disc, tt.exag, tt.sent)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if diff := cmp.Diff(tt.wantReasons, got.Reasons); diff != "" {
				t.Errorf("Reasons mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposeRisk_LowTiers(t *testing.T) {
	t.Parallel()
	got := ComposeRisk(kw(1), disclaimer(true), exag(1), sentiment(0.1))
	if got.Score != 2.5 {
		t.Errorf("Score = %v, want 2.5", got.Score)
	}
	if len(got.Reasons) != 3 {
		t.Fatalf("got %d reasons, want 3: %v", len(got.Reasons), got.Reasons)
	}
	if !strings.HasPrefix(got.Reasons[0], "1 hype keyword") {
		t.Errorf("first reason should describe keywords, got %q", got.Reasons[0])
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()
	hype := map[float64]models.RiskLabel{
		0: models.RiskLow, 29.99: models.RiskLow, 30: models.RiskMedium,
		59.99: models.RiskMedium, 60: models.RiskHigh, 80: models.RiskVeryHigh, 100: models.RiskVeryHigh,
	}
	for score, want := range hype {
		if got := HypeLabel(score); got != want {
			t.Errorf("HypeLabel(%v) = %q, want %q", score, got, want)
		}
	}
	risk := map[float64]models.RiskLabel{
		0: models.RiskLow, 2.9: models.RiskLow, 3: models.RiskMedium,
		6: models.RiskHigh, 7.9: models.RiskHigh, 8: models.RiskVeryHigh,
	}
	for score, want := range risk {
		if got := RiskLabel(score); got != want {
			t.Errorf("RiskLabel(%v) = %q, want %q", score, got, want)
		}
	}
}
